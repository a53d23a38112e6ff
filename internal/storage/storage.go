// Package storage reads import files from S3-compatible object storage.
package storage

import (
	"context"
	"path"
	"sort"
	"strings"
)

// ObjectInfo represents metadata for a remote object.
type ObjectInfo struct {
	Key string
}

// ObjectStorage captures the read operations bulk imports need.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
}

var importExtensions = map[string]bool{
	".csv":  true,
	".tsv":  true,
	".txt":  true,
	".xlsx": true,
}

// ImportKeys lists the importable objects under prefix in key order.
func ImportKeys(ctx context.Context, store ObjectStorage, prefix string) ([]string, error) {
	objects, err := store.ListObjects(ctx, strings.TrimSpace(prefix))
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		if importExtensions[strings.ToLower(path.Ext(obj.Key))] {
			keys = append(keys, obj.Key)
		}
	}
	sort.Strings(keys)

	return keys, nil
}

// ResolveKey joins a prefix and a key unless the key already carries it.
func ResolveKey(prefix, key string) string {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	if prefix == "" || strings.HasPrefix(key, prefix+"/") {
		return key
	}
	return prefix + "/" + key
}
