// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-cms/api/internal/platform/config"
)

/*
TestConfig_AllowedOrigins verifies the EXTRA_ORIGINS list parsing consumed
by the CORS middleware.
*/
func TestConfig_AllowedOrigins(t *testing.T) {
	empty := &config.Config{}
	assert.Nil(t, empty.AllowedOrigins())

	cfg := &config.Config{ExtraOrigins: "https://studio.partner.example, https://beta.example"}
	assert.Equal(t,
		[]string{"https://studio.partner.example", "https://beta.example"},
		cfg.AllowedOrigins(),
	)
}
