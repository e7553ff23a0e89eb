package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/execboard/internal/app"
	_ "github.com/odyssey-erp/execboard/internal/testing/guard"
)

func TestMainReturnsInTestMode(t *testing.T) {
	app.RefreshTestMode()
	require.True(t, app.InTestMode())
	require.NotPanics(t, main)
}
