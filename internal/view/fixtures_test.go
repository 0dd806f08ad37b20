package view

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

// referenceTime is the fixed "now" used by the fixture tests.
var referenceTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func loadFixture[L any](t *testing.T, name string) *L {
	t.Helper()

	b, err := os.ReadFile(filepath.Join("testdata", name+".yaml"))
	require.NoError(t, err)

	list := new(L)
	require.NoError(t, yaml.Unmarshal(b, list))
	return list
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()

	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}
