package config

import (
	"testing"

	v "github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func withDefaults(t *testing.T, overrides map[string]any) {
	t.Helper()

	v.Reset()
	t.Cleanup(v.Reset)

	setDefaults()
	for k, val := range overrides {
		v.Set(k, val)
	}
}

func TestValidateDefaults(t *testing.T) {
	withDefaults(t, nil)

	assert.NoError(t, Validate())
	assert.Equal(t, "/tmp/files_manager", v.GetString("storage.folder_path"))
	assert.Equal(t, []int{500, 250, 100}, v.GetIntSlice("derivative.widths"))
	assert.Equal(t, "24h0m0s", v.GetDuration("session.ttl").String())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
	}{
		{"log level", map[string]any{"app.log_level": "loud"}},
		{"log format", map[string]any{"app.log_format": "xml"}},
		{"mode", map[string]any{"app.mode": "both"}},
		{"port", map[string]any{"host.port": 0}},
		{"upload size", map[string]any{"upload.max_size": -1}},
		{"session ttl", map[string]any{"session.ttl": "0s"}},
		{"db driver", map[string]any{"db.driver": "mysql"}},
		{"postgres without dsn", map[string]any{"db.driver": "postgres"}},
		{"redis addr", map[string]any{"redis.addr": ""}},
		{"concurrency", map[string]any{"queue.concurrency": 0}},
		{"max retry", map[string]any{"queue.max_retry": -1}},
		{"widths", map[string]any{"derivative.widths": []int{500, 0}}},
		{"storage type", map[string]any{"storage.type": "ftp"}},
		{"s3 without credentials", map[string]any{"storage.type": "s3"}},
		{"local without folder", map[string]any{"storage.folder_path": ""}},
		{"mail without host", map[string]any{"mail.enabled": true, "mail.sender_address": "a@b.c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withDefaults(t, tt.overrides)
			assert.Error(t, Validate())
		})
	}
}

func TestValidateS3(t *testing.T) {
	withDefaults(t, map[string]any{
		"storage.type":          "s3",
		"aws.access_key":        "key",
		"aws.secret_access_key": "secret",
		"aws.bucket":            "files",
	})

	assert.NoError(t, Validate())
}
