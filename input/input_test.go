package input_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaxmatrix/game-experiments/input"
)

func TestKeyboardPressRelease(t *testing.T) {
	kb := input.NewKeyboard()
	assert.False(t, kb.Pressed("w"))

	kb.Press("w")
	kb.Press("ArrowLeft")
	assert.True(t, kb.Pressed("w"))
	assert.Equal(t, []string{"ArrowLeft", "w"}, kb.Held())

	kb.Release("w")
	assert.False(t, kb.Pressed("w"))

	kb.Reset()
	assert.Empty(t, kb.Held())
}

func TestDefaultKeyMapAliases(t *testing.T) {
	m := input.DefaultKeyMap()
	cases := []struct {
		key    string
		intent input.Intent
	}{
		{"w", input.IntentUp},
		{"ArrowUp", input.IntentUp},
		{"s", input.IntentDown},
		{"ArrowDown", input.IntentDown},
		{"a", input.IntentLeft},
		{"ArrowLeft", input.IntentLeft},
		{"d", input.IntentRight},
		{"ArrowRight", input.IntentRight},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			state := input.Static{tc.key: true}
			for _, intent := range []input.Intent{input.IntentUp, input.IntentDown, input.IntentLeft, input.IntentRight} {
				assert.Equal(t, intent == tc.intent, m.Active(state, intent), "intent %s", intent)
			}
		})
	}
}

func TestKeyMapNilState(t *testing.T) {
	assert.False(t, input.DefaultKeyMap().Active(nil, input.IntentUp))
}

func TestKeyboardConcurrentAccess(t *testing.T) {
	kb := input.NewKeyboard()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		key := strconv.Itoa(i)
		go func() {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				kb.Press(key)
				kb.Release(key)
			}
		}()
		go func() {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				_ = kb.Pressed(key)
			}
		}()
	}
	wg.Wait()
	assert.Empty(t, kb.Held())
}
