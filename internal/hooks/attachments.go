package hooks

import (
	"context"
	"time"

	"github.com/smndtrl/nocodb/internal/meta"
)

// URLSigner produces a time-limited download URL for a stored object. The
// filestore package provides the object-store backed implementation.
type URLSigner interface {
	PresignGetURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// signedURLExpiry bounds how long attachment links embedded in a delivered
// payload stay valid.
const signedURLExpiry = 2 * time.Hour

// expandAttachments adds a signed_url to every attachment cell of the given
// rows, so webhook consumers can fetch files without platform credentials.
// Rows are modified in place. Signing failures leave the cell untouched.
func expandAttachments(ctx context.Context, signer URLSigner, model *meta.Model, rows []map[string]any) {
	if signer == nil || model == nil {
		return
	}

	var attachmentCols []*meta.Column
	for _, col := range model.Columns {
		if col.Type == meta.UITypeAttachment {
			attachmentCols = append(attachmentCols, col)
		}
	}
	if len(attachmentCols) == 0 {
		return
	}

	for _, row := range rows {
		for _, col := range attachmentCols {
			cell, ok := row[col.Title]
			if !ok {
				cell, ok = row[col.ColumnName]
			}
			if !ok {
				continue
			}
			signCell(ctx, signer, cell)
		}
	}
}

func signCell(ctx context.Context, signer URLSigner, cell any) {
	items, ok := cell.([]any)
	if !ok {
		return
	}
	for _, item := range items {
		att, ok := item.(map[string]any)
		if !ok {
			continue
		}
		path, _ := att["path"].(string)
		if path == "" {
			continue
		}
		if url, err := signer.PresignGetURL(ctx, path, signedURLExpiry); err == nil {
			att["signed_url"] = url
		}
	}
}
