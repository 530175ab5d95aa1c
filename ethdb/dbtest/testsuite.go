// Copyright 2019 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package dbtest

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominant-strategies/quai-evm/ethdb"
)

// TestDatabaseSuite runs a suite of tests against a KeyValueStore database
// implementation.
func TestDatabaseSuite(t *testing.T, New func() ethdb.KeyValueStore) {
	t.Run("Iterator", func(t *testing.T) {
		tests := []struct {
			content map[string]string
			prefix  string
			start   string
			order   []string
		}{
			// Empty databases should be iterable
			{map[string]string{}, "", "", nil},
			{map[string]string{}, "non-existent-prefix", "", nil},

			// Single-item databases should be iterable
			{map[string]string{"key": "val"}, "", "", []string{"key"}},
			{map[string]string{"key": "val"}, "k", "", []string{"key"}},
			{map[string]string{"key": "val"}, "l", "", nil},

			// Multi-item databases should be fully iterable
			{
				map[string]string{"k1": "v1", "k5": "v5", "k2": "v2", "k4": "v4", "k3": "v3"},
				"", "",
				[]string{"k1", "k2", "k3", "k4", "k5"},
			},
			{
				map[string]string{"k1": "v1", "k5": "v5", "k2": "v2", "k4": "v4", "k3": "v3"},
				"k", "",
				[]string{"k1", "k2", "k3", "k4", "k5"},
			},
			{
				map[string]string{"k1": "v1", "k5": "v5", "k2": "v2", "k4": "v4", "k3": "v3"},
				"l", "",
				nil,
			},
			// Multi-item databases should be prefix-iterable
			{
				map[string]string{
					"ka1": "va1", "ka5": "va5", "ka2": "va2", "ka4": "va4", "ka3": "va3",
					"kb1": "vb1", "kb5": "vb5", "kb2": "vb2", "kb4": "vb4", "kb3": "vb3",
				},
				"ka", "",
				[]string{"ka1", "ka2", "ka3", "ka4", "ka5"},
			},
			// Multi-item databases should be prefix-iterable with start position
			{
				map[string]string{
					"ka1": "va1", "ka5": "va5", "ka2": "va2", "ka4": "va4", "ka3": "va3",
					"kb1": "vb1", "kb5": "vb5", "kb2": "vb2", "kb4": "vb4", "kb3": "vb3",
				},
				"ka", "3",
				[]string{"ka3", "ka4", "ka5"},
			},
			{
				map[string]string{
					"ka1": "va1", "ka5": "va5", "ka2": "va2", "ka4": "va4", "ka3": "va3",
					"kb1": "vb1", "kb5": "vb5", "kb2": "vb2", "kb4": "vb4", "kb3": "vb3",
				},
				"ka", "8",
				nil,
			},
		}
		for i, tt := range tests {
			// Create the key-value data store
			db := New()
			for key, val := range tt.content {
				require.NoError(t, db.Put([]byte(key), []byte(val)), "test %d: failed to insert item %s:%s into database", i, key, val)
			}
			// Iterate over the database with the given configs and verify the results
			it, idx := db.NewIterator([]byte(tt.prefix), []byte(tt.start)), 0
			for it.Next() {
				require.Less(t, idx, len(tt.order), "test %d: prefix=%q more items than expected: checking idx=%d (key %q), expecting len=%d", i, tt.prefix, idx, it.Key(), len(tt.order))
				assert.Equal(t, tt.order[idx], string(it.Key()), "test %d: item %d: key mismatch", i, idx)
				assert.Equal(t, tt.content[tt.order[idx]], string(it.Value()), "test %d: item %d: value mismatch", i, idx)
				idx++
			}
			assert.NoError(t, it.Error(), "test %d: iteration failed", i)
			assert.Equal(t, len(tt.order), idx, "test %d: iteration terminated prematurely", i)
			it.Release()
			db.Close()
		}
	})

	t.Run("IteratorWith", func(t *testing.T) {
		db := New()
		defer db.Close()

		keys := []string{"1", "2", "3", "4", "6", "10", "11", "12", "20", "21", "22"}
		sort.Strings(keys) // 1, 10, 11, etc

		for _, k := range keys {
			require.NoError(t, db.Put([]byte(k), nil))
		}

		{
			it := db.NewIterator(nil, nil)
			got, want := iterateKeys(it), keys
			require.NoError(t, it.Error())
			assert.Equal(t, want, got, "Iterator: got: %s; want: %s", got, want)
		}

		{
			it := db.NewIterator([]byte("1"), nil)
			got, want := iterateKeys(it), []string{"1", "10", "11", "12"}
			require.NoError(t, it.Error())
			assert.Equal(t, want, got, "IteratorWith(1,nil): got: %s; want: %s", got, want)
		}

		{
			it := db.NewIterator([]byte("5"), nil)
			got, want := iterateKeys(it), []string{}
			require.NoError(t, it.Error())
			assert.Equal(t, want, got, "IteratorWith(5,nil): got: %s; want: %s", got, want)
		}

		{
			it := db.NewIterator(nil, []byte("2"))
			got, want := iterateKeys(it), []string{"2", "20", "21", "22", "3", "4", "6"}
			require.NoError(t, it.Error())
			assert.Equal(t, want, got, "IteratorWith(nil,2): got: %s; want: %s", got, want)
		}

		{
			it := db.NewIterator(nil, []byte("5"))
			got, want := iterateKeys(it), []string{"6"}
			require.NoError(t, it.Error())
			assert.Equal(t, want, got, "IteratorWith(nil,5): got: %s; want: %s", got, want)
		}
	})

	t.Run("KeyValueOperations", func(t *testing.T) {
		db := New()
		defer db.Close()

		key := []byte("foo")

		got, err := db.Has(key)
		require.NoError(t, err)
		assert.False(t, got, "wrong value: %t", got)

		value := []byte("hello world")
		require.NoError(t, db.Put(key, value))

		got, err = db.Has(key)
		require.NoError(t, err)
		assert.True(t, got, "wrong value: %t", got)

		d, err := db.Get(key)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(d, value), "wrong value: %q", d)

		require.NoError(t, db.Delete(key))

		got, err = db.Has(key)
		require.NoError(t, err)
		assert.False(t, got, "wrong value: %t", got)

		_, err = db.Get(key)
		assert.Error(t, err, "missing key should not be retrievable")
	})

	t.Run("Batch", func(t *testing.T) {
		db := New()
		defer db.Close()

		b := db.NewBatch()
		for _, k := range []string{"1", "2", "3", "4"} {
			require.NoError(t, b.Put([]byte(k), nil))
		}

		has, err := db.Has([]byte("1"))
		require.NoError(t, err)
		assert.False(t, has, "db contains element before batch write")

		require.NoError(t, b.Write())

		{
			it := db.NewIterator(nil, nil)
			got, want := iterateKeys(it), []string{"1", "2", "3", "4"}
			assert.Equal(t, want, got, "got: %s; want: %s", got, want)
		}

		b.Reset()
		assert.Zero(t, b.ValueSize())

		// Mix writes and deletes in batch
		b.Put([]byte("5"), nil)
		b.Delete([]byte("1"))
		b.Put([]byte("6"), nil)
		b.Delete([]byte("3"))
		b.Put([]byte("3"), nil)

		require.NoError(t, b.Write())

		{
			it := db.NewIterator(nil, nil)
			got, want := iterateKeys(it), []string{"2", "3", "4", "5", "6"}
			assert.Equal(t, want, got, "got: %s; want: %s", got, want)
		}
	})

	t.Run("BatchReplay", func(t *testing.T) {
		db := New()
		defer db.Close()

		want := []string{"1", "2", "3", "4"}
		b := db.NewBatch()
		for _, k := range want {
			require.NoError(t, b.Put([]byte(k), nil))
		}

		b2 := db.NewBatch()
		require.NoError(t, b.Replay(b2))
		require.NoError(t, b2.Replay(db))

		it := db.NewIterator(nil, nil)
		defer it.Release()
		got := iterateKeys(it)
		assert.Equal(t, want, got, "got: %s; want: %s", got, want)
	})
}

func iterateKeys(it ethdb.Iterator) []string {
	keys := []string{}
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	sort.Strings(keys)
	it.Release()
	return keys
}
