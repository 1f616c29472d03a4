// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import "errors"

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("store: not found")
