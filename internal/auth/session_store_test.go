package auth

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPushHistory(t *testing.T) {
	t.Run("prepends newest first", func(t *testing.T) {
		history := PushHistory(nil, "phòng đơn")
		history = PushHistory(history, "phòng đôi")
		assert.Equal(t, []string{"phòng đôi", "phòng đơn"}, history)
	})

	t.Run("duplicate moves to front", func(t *testing.T) {
		history := []string{"c", "b", "a"}
		history = PushHistory(history, "a")
		assert.Equal(t, []string{"a", "c", "b"}, history)
	})

	t.Run("repeat of the front entry is a no-op", func(t *testing.T) {
		history := []string{"a", "b"}
		history = PushHistory(history, "a")
		assert.Equal(t, []string{"a", "b"}, history)
	})

	t.Run("capped at ten entries, oldest dropped", func(t *testing.T) {
		var history []string
		for i := 0; i < 15; i++ {
			history = PushHistory(history, fmt.Sprintf("query-%d", i))
		}
		assert.Len(t, history, SearchHistoryMax)
		assert.Equal(t, "query-14", history[0])
		assert.Equal(t, "query-5", history[SearchHistoryMax-1])
	})

	t.Run("empty query ignored", func(t *testing.T) {
		history := []string{"a"}
		assert.Equal(t, []string{"a"}, PushHistory(history, ""))
	})
}
