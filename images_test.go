package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmitter records broadcast messages instead of fanning them out.
type fakeEmitter struct {
	msgs []any
}

func (f *fakeEmitter) Broadcast(msg any) {
	f.msgs = append(f.msgs, msg)
}

func TestImageCatalogAddAnnounces(t *testing.T) {
	emitter := &fakeEmitter{}
	ic := newImageCatalog(emitter)

	ref := ic.Add("sunset", "data:image/png;base64,AAAA")
	assert.NotEmpty(t, ref.ID)
	assert.Equal(t, "sunset", ref.Name)

	require.Len(t, emitter.msgs, 1)
	announcement, ok := emitter.msgs[0].(ImageListMessage)
	require.True(t, ok)
	require.Len(t, announcement.Images, 1)
	assert.Equal(t, ref.ID, announcement.Images[0].ID)
}

func TestImageCatalogListOrder(t *testing.T) {
	ic := newImageCatalog(&fakeEmitter{})

	ic.Add("first", "u1")
	ic.Add("second", "u2")
	ic.Add("third", "u3")

	names := []string{}
	for _, ref := range ic.List() {
		names = append(names, ref.Name)
	}
	assert.Equal(t, []string{"first", "second", "third"}, names)
}

func TestImageCatalogRemove(t *testing.T) {
	emitter := &fakeEmitter{}
	ic := newImageCatalog(emitter)

	a := ic.Add("a", "u1")
	ic.Add("b", "u2")
	emitter.msgs = nil

	require.True(t, ic.Remove(a.ID))
	require.Len(t, emitter.msgs, 1)
	announcement := emitter.msgs[0].(ImageListMessage)
	require.Len(t, announcement.Images, 1)
	assert.Equal(t, "b", announcement.Images[0].Name)

	// Removing an unknown id neither errors nor announces.
	assert.False(t, ic.Remove("nope"))
	assert.Len(t, emitter.msgs, 1)
}
