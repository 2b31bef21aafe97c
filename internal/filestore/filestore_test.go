package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smndtrl/nocodb/internal/config"
)

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.FilestoreConfig{
		Endpoint:      "minio.internal:9000",
		AccessKey:     "ak",
		SecretKey:     "sk",
		UseSSL:        true,
		DefaultBucket: "attachments",
	})

	assert.Equal(t, "minio.internal:9000", cfg.Endpoint)
	assert.Equal(t, "ak", cfg.AccessKey)
	assert.Equal(t, "sk", cfg.SecretKey)
	assert.True(t, cfg.UseSSL)
	assert.Equal(t, "attachments", cfg.Bucket)
	assert.Empty(t, cfg.Region, "region is backend-specific and not part of platform config")
}
