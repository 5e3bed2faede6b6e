package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/compass/internal/core/domain"
)

func TestCacheKeys(t *testing.T) {
	ref := domain.ComponentReference{Instance: "gitlab.com", Path: "grp/proj", Name: "lint", Version: "v1.0.0"}

	assert.Equal(t, "component:gitlab.com/grp/proj/lint@v1.0.0", domain.ComponentKey(ref))
	assert.Equal(t, "versions:gitlab.com/grp/proj/lint", domain.VersionsKey(ref))
	assert.Equal(t, "component:gitlab.com/grp/proj/lint", domain.ComponentKey(ref.WithVersion("")))
}

func TestCacheKeys_EquivalentReferencesShareKey(t *testing.T) {
	forms := []string{
		"https://gitlab.com/grp/proj/lint@main",
		"gitlab.com/grp/proj/lint@main",
		"$CI_SERVER_FQDN/grp/proj/lint@main",
		"  gitlab.com/grp/proj/lint@main\n",
	}

	keys := make(map[string]struct{})
	for _, raw := range forms {
		ref, err := domain.ParseReference(raw, "gitlab.com")
		require.NoError(t, err)
		keys[domain.ComponentKey(ref)] = struct{}{}
	}
	require.Len(t, keys, 1)
	assert.Contains(t, keys, "component:gitlab.com/grp/proj/lint@main")
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "component:gitlab.com/grp/proj/*", domain.KeyPrefix(domain.KindComponent, "gitlab.com", "grp/proj"))
	assert.Equal(t, "versions:gitlab.com/*", domain.KeyPrefix(domain.KindVersions, "gitlab.com", ""))
}
