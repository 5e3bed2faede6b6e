package domain

// KeyKind is the category segment of a hierarchical cache key.
type KeyKind string

const (
	// KindComponent keys hold resolved components.
	KindComponent KeyKind = "component"
	// KindVersions keys hold version listings.
	KindVersions KeyKind = "versions"
)

// CacheKey builds the structured key {kind}:{instance}/{path}/{name}[@{version}].
// References that normalize to the same fields always share a key.
func CacheKey(kind KeyKind, ref ComponentReference) string {
	key := string(kind) + ":" + ref.Location()
	if ref.Version != "" {
		key += "@" + ref.Version
	}
	return key
}

// ComponentKey returns the cache key of a resolved component.
func ComponentKey(ref ComponentReference) string {
	return CacheKey(KindComponent, ref)
}

// VersionsKey returns the cache key of a component's version listing.
// Version listings are per component, so the reference version is ignored.
func VersionsKey(ref ComponentReference) string {
	return CacheKey(KindVersions, ref.WithVersion(""))
}

// KeyPrefix returns a wildcard pattern matching every key of kind under instance/path.
func KeyPrefix(kind KeyKind, instance, path string) string {
	prefix := string(kind) + ":" + instance + "/"
	if path != "" {
		prefix += path + "/"
	}
	return prefix + "*"
}
