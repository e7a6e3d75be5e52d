package id

import (
	"regexp"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID_Format(t *testing.T) {
	uuidRegex := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	for i := 0; i < 50; i++ {
		got := UUID()
		assert.Regexp(t, uuidRegex, got)
	}
}

func TestForStrategy(t *testing.T) {
	gen, err := ForStrategy("")
	require.NoError(t, err)
	assert.True(t, IsValidULID(gen()))

	gen, err = ForStrategy("UUID")
	require.NoError(t, err)
	_, err = uuid.Parse(gen())
	assert.NoError(t, err)

	_, err = ForStrategy("snowflake")
	assert.ErrorContains(t, err, `unknown id strategy "snowflake"`)
}

func TestULID_LengthAndCharset(t *testing.T) {
	for i := 0; i < 100; i++ {
		got := ULID()
		require.Len(t, got, ULIDLength)
		assert.True(t, IsValidULID(got), "invalid ULID %q", got)
		assert.NotContainsf(t, got, "I", "ULID %q contains excluded character", got)
		assert.NotContainsf(t, got, "L", "ULID %q contains excluded character", got)
		assert.NotContainsf(t, got, "O", "ULID %q contains excluded character", got)
		assert.NotContainsf(t, got, "U", "ULID %q contains excluded character", got)
	}
}

func TestULID_SortableAcrossMilliseconds(t *testing.T) {
	first := ULID()
	time.Sleep(2 * time.Millisecond)
	second := ULID()

	assert.Less(t, first[:10], second[:10])
}

func TestULID_ConcurrentUnique(t *testing.T) {
	const workers, perWorker = 8, 250

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, ULID())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, v := range local {
				seen[v] = struct{}{}
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestEncodeULID_TimestampPrefix(t *testing.T) {
	ms := []int64{0, 1, 1700000000000, 1700000000001, 281474976710655}
	prefixes := make([]string, len(ms))
	for i, m := range ms {
		prefixes[i] = encodeULID(m, 0)[:10]
	}

	assert.Equal(t, "0000000000", prefixes[0])
	assert.Equal(t, "0000000001", prefixes[1])
	assert.Equal(t, "7ZZZZZZZZZ", prefixes[4])
	assert.True(t, sort.StringsAreSorted(prefixes))
}

func TestIsValidULID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "valid", in: "01ARZ3NDEKTSV4RRFFQ69G5FAV", want: true},
		{name: "too short", in: "01ARZ3NDEK", want: false},
		{name: "lowercase", in: "01arz3ndektsv4rrffq69g5fav", want: false},
		{name: "excluded letter", in: "01ARZ3NDEKTSV4RRFFQ69G5FAI", want: false},
		{name: "empty", in: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidULID(tt.in))
		})
	}
}
