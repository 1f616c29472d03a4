// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides durable blob storage for uploaded photos and
// mirrored generated images. The S3-compatible client is the production
// backend; a local-disk store serves as the fallback when no bucket is
// configured, with files served under /uploads/.
package storage

import (
	"context"
	"io"
)

// Blob stores an object durably and returns a stable URL for it.
type Blob interface {
	// Put writes the object under key and returns the URL clients can
	// fetch it from.
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}
