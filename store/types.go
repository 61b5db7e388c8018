package store

import "github.com/modnet/modpay"

// Aliases for all storage types of the root package, for shorter names
// everywhere.

type ReadOnlyKVStore = modpay.ReadOnlyKVStore
type KVStore = modpay.KVStore
type SetDeleter = modpay.SetDeleter
type Batch = modpay.Batch
type Iterator = modpay.Iterator
type CacheableKVStore = modpay.CacheableKVStore
type KVCacheWrap = modpay.KVCacheWrap
