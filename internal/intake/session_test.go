package intake

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	s := NewSession("abc")
	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, PhaseCollecting, s.Phase)
	assert.Empty(t, s.Transcript)
}

func TestAppendExchange_UserFirst(t *testing.T) {
	s := NewSession("abc")
	s.AppendExchange("Hallo", "Guten Tag!")

	require.Len(t, s.Transcript, 2)
	assert.Equal(t, Turn{Role: RoleUser, Text: "Hallo"}, s.Transcript[0])
	assert.Equal(t, Turn{Role: RoleAssistant, Text: "Guten Tag!"}, s.Transcript[1])
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewSession("abc")
	s.AppendExchange("Hallo", "Guten Tag!")

	snap := s.Snapshot()
	snap[0].Text = "verändert"

	assert.Equal(t, "Hallo", s.Transcript[0].Text, "mutating the snapshot must not affect the session")
}

func TestReset(t *testing.T) {
	s := NewSession("abc")
	s.AppendExchange("Hallo", "Guten Tag!")
	s.Phase = PhaseAwaitingConfirmation

	s.Reset()

	assert.Empty(t, s.Transcript)
	assert.Equal(t, PhaseCollecting, s.Phase)
}

func TestStore_GetCreates(t *testing.T) {
	st := NewStore()
	s1 := st.Get("a")
	s2 := st.Get("a")

	assert.Same(t, s1, s2, "Get must return the same session for the same id")
	assert.Equal(t, 1, st.Len())
}

func TestStore_Lookup(t *testing.T) {
	st := NewStore()
	_, ok := st.Lookup("missing")
	assert.False(t, ok)

	st.Get("a")
	s, ok := st.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "a", s.ID)
}

func TestStore_Delete(t *testing.T) {
	st := NewStore()
	st.Get("a")
	st.Delete("a")

	_, ok := st.Lookup("a")
	assert.False(t, ok)
	assert.Equal(t, 0, st.Len())
}

func TestStore_ConcurrentGet(t *testing.T) {
	st := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Get("shared")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, st.Len())
}
