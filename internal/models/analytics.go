// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Analytics is the on-demand aggregate over themes and generated images.
// It is recomputed on every request; nothing here is materialized.
//
// Invariant: the sum over CategoryUsage equals TotalGenerations.
type Analytics struct {
	TotalImages       int            `json:"totalImages"`
	TotalThemes       int            `json:"totalThemes"`
	RecentGenerations int            `json:"recentGenerations"` // images created in the last 7 days
	CategoryUsage     map[string]int `json:"categoryUsage"`
	PopularThemes     []Theme        `json:"popularThemes"`
	TotalGenerations  int            `json:"totalGenerations"`
}
