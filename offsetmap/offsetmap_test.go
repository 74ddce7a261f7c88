package offsetmap

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/compactgo/record"
)

func keyed(key string, offset int64) *record.Simple {
	return &record.Simple{K: []byte(key), Off: offset}
}

func TestMapPutGet(t *testing.T) {
	// 240 bytes with 16-byte digests gives exactly 10 slots.
	m, err := New(240)
	require.NoError(t, err)
	require.Equal(t, 10, m.Capacity())

	ok, err := m.Put(keyed("a", 5))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, m.Size())
	assert.Equal(t, int64(5), m.Get([]byte("a")))

	// An older version never wins.
	ok, err = m.Put(keyed("a", 3))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(5), m.Get([]byte("a")))

	// A newer version overwrites in place; size does not change.
	ok, err = m.Put(keyed("a", 9))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(9), m.Get([]byte("a")))
	assert.Equal(t, 1, m.Size())

	ok, err = m.Put(keyed("b", 1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, m.Size())
	assert.Equal(t, int64(1), m.Get([]byte("b")))
	assert.Equal(t, int64(9), m.Get([]byte("a")))
}

func TestMapEqualVersionRejected(t *testing.T) {
	m, err := New(240)
	require.NoError(t, err)

	ok, err := m.Put(keyed("a", 5))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = m.Put(keyed("a", 5))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Size())
	assert.Equal(t, int64(5), m.Get([]byte("a")))
}

func TestMapGetMissing(t *testing.T) {
	m, err := New(240)
	require.NoError(t, err)

	assert.Equal(t, int64(-1), m.Get([]byte("never-inserted")))
}

func TestMapKeylessRecord(t *testing.T) {
	m, err := New(240)
	require.NoError(t, err)

	ok, err := m.Put(&record.Simple{Off: 7})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Size())
	assert.Equal(t, int64(-1), m.LatestOffset())
}

func TestMapClear(t *testing.T) {
	m, err := New(240)
	require.NoError(t, err)

	for i, key := range []string{"a", "b", "c"} {
		ok, err := m.Put(keyed(key, int64(i)))
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.Equal(t, 3, m.Size())

	m.Clear()

	assert.Equal(t, 0, m.Size())
	assert.Equal(t, 0.0, m.Utilization())
	assert.Equal(t, 0.0, m.CollisionRate())
	assert.Equal(t, int64(-1), m.LatestOffset())
	assert.Equal(t, int64(-1), m.Get([]byte("a")))
	assert.Equal(t, int64(-1), m.Get([]byte("b")))
	assert.Equal(t, int64(-1), m.Get([]byte("c")))

	// The allocation is reusable for the next generation.
	ok, err := m.Put(keyed("a", 1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), m.Get([]byte("a")))
}

func TestMapFull(t *testing.T) {
	// 48 bytes with 16-byte digests gives exactly 2 slots.
	m, err := New(48)
	require.NoError(t, err)
	require.Equal(t, 2, m.Capacity())

	for i, key := range []string{"a", "b"} {
		ok, err := m.Put(keyed(key, int64(i)))
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.Equal(t, m.Capacity(), m.Size())

	_, err = m.Put(keyed("c", 9))
	assert.ErrorIs(t, err, ErrMapFull)
	assert.Equal(t, 2, m.Size())

	// Existing keys remain readable.
	assert.Equal(t, int64(0), m.Get([]byte("a")))
	assert.Equal(t, int64(1), m.Get([]byte("b")))
}

func TestMapTimestampStrategy(t *testing.T) {
	m, err := New(240, WithStrategy(record.ByTimestamp))
	require.NoError(t, err)

	ok, err := m.Put(&record.Simple{K: []byte("x"), Off: 100, TS: 50})
	require.NoError(t, err)
	assert.True(t, ok)

	// The offset went down but the timestamp went up: the record wins.
	ok, err = m.Put(&record.Simple{K: []byte("x"), Off: 50, TS: 80})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(80), m.Get([]byte("x")))

	// LatestOffset tracks raw offsets regardless of which put won on value.
	assert.Equal(t, int64(100), m.LatestOffset())
}

func TestMapHeaderStrategy(t *testing.T) {
	m, err := New(240, WithStrategy(record.ByHeader("version")))
	require.NoError(t, err)

	versioned := func(key string, offset, version int64) *record.Simple {
		return &record.Simple{
			K:    []byte(key),
			Off:  offset,
			Hdrs: []record.Header{{Key: "Version", Value: binary.AppendVarint(nil, version)}},
		}
	}

	ok, err := m.Put(versioned("k", 1, 5))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Put(versioned("k", 2, 3))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.Put(versioned("k", 3, 9))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(9), m.Get([]byte("k")))
	assert.Equal(t, int64(3), m.LatestOffset())
}

func TestMapLatestOffset(t *testing.T) {
	m, err := New(240)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), m.LatestOffset())

	_, err = m.Put(keyed("a", 10))
	require.NoError(t, err)
	assert.Equal(t, int64(10), m.LatestOffset())

	// A stale put still never lowers the latest offset.
	_, err = m.Put(keyed("a", 4))
	require.NoError(t, err)
	assert.Equal(t, int64(10), m.LatestOffset())

	m.UpdateLatestOffset(15)
	assert.Equal(t, int64(15), m.LatestOffset())
}

func TestMapCollisionRateWithoutLookups(t *testing.T) {
	m, err := New(240)
	require.NoError(t, err)

	assert.Equal(t, 0.0, m.CollisionRate())
}

func TestMapUtilization(t *testing.T) {
	m, err := New(240)
	require.NoError(t, err)
	require.Equal(t, 10, m.Capacity())

	for i := range 5 {
		ok, err := m.Put(keyed(fmt.Sprintf("key-%d", i), int64(i)))
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.InDelta(t, 0.5, m.Utilization(), 1e-9)
}

func TestMapManyKeys(t *testing.T) {
	// High load factor exercises probe collisions on real digests.
	m, err := New(100 * 24)
	require.NoError(t, err)
	require.Equal(t, 100, m.Capacity())

	for i := range 90 {
		ok, err := m.Put(keyed(fmt.Sprintf("key-%d", i), int64(i)))
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.Equal(t, 90, m.Size())

	for i := range 90 {
		assert.Equal(t, int64(i), m.Get([]byte(fmt.Sprintf("key-%d", i))))
	}
	assert.Equal(t, int64(-1), m.Get([]byte("key-90")))
	assert.GreaterOrEqual(t, m.CollisionRate(), 0.0)
}

func TestNewValidation(t *testing.T) {
	t.Run("non-positive budget", func(t *testing.T) {
		_, err := New(0)
		var budgetErr *ErrInvalidMemoryBudget
		require.ErrorAs(t, err, &budgetErr)
		assert.Equal(t, 0, budgetErr.Bytes)

		_, err = New(-100)
		require.ErrorAs(t, err, &budgetErr)
	})

	t.Run("budget below one entry", func(t *testing.T) {
		_, err := New(23) // md5 entries are 24 bytes
		var budgetErr *ErrInvalidMemoryBudget
		require.ErrorAs(t, err, &budgetErr)
		assert.Equal(t, 24, budgetErr.BytesPerEntry)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		_, err := New(240, WithHashAlgorithm("blake7"))
		var algoErr *ErrUnknownAlgorithm
		require.ErrorAs(t, err, &algoErr)
		assert.Equal(t, "blake7", algoErr.Algorithm)
	})

	t.Run("slot count per algorithm", func(t *testing.T) {
		tests := []struct {
			algorithm string
			slots     int
		}{
			{"md5", 20},      // 480 / (16+8)
			{"MD5", 20},      // case-insensitive
			{"sha1", 17},     // 480 / (20+8)
			{"sha256", 12},   // 480 / (32+8)
			{"murmur3", 20},  // 480 / (16+8)
			{"xxhash64", 30}, // 480 / (8+8)
		}
		for _, tt := range tests {
			m, err := New(480, WithHashAlgorithm(tt.algorithm))
			require.NoError(t, err, tt.algorithm)
			assert.Equal(t, tt.slots, m.Capacity(), tt.algorithm)
		}
	})
}

func FuzzMapPutGet(f *testing.F) {
	f.Add([]byte("key"), int64(42))
	f.Add([]byte{0}, int64(0))
	f.Add([]byte("another"), int64(-7))

	f.Fuzz(func(t *testing.T, key []byte, version int64) {
		if len(key) == 0 {
			t.Skip()
		}
		m, err := New(4096)
		if err != nil {
			t.Fatal(err)
		}
		ok, err := m.Put(&record.Simple{K: key, Off: version})
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("first put for key %q rejected", key)
		}
		if got := m.Get(key); got != version {
			t.Fatalf("got %d, want %d", got, version)
		}
	})
}
