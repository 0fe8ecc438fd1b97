package gemtext

import "sync"

// MediaFlags qualify the state of one media slot.
type MediaFlags uint8

const (
	// MediaPartial means more bytes may still follow.
	MediaPartial MediaFlags = 1 << iota
	// MediaAllowHide lets the user dismiss the inline presentation.
	MediaAllowHide
	// MediaHidden marks content dismissed from view but retained for
	// re-display.
	MediaHidden
)

// mediaSlot holds the most recent bytes/metadata for one inline resource.
type mediaSlot struct {
	linkID LinkID
	mime   string
	data   []byte
	flags  MediaFlags
}

// Media is the store of inline image/audio content, keyed by link id.
// Slots may be updated concurrently by independent background sub-fetches.
type Media struct {
	mu    sync.Mutex
	items []*mediaSlot
}

// NewMedia creates an empty media store.
func NewMedia() *Media {
	return &Media{}
}

// SetData stores or updates the slot for linkID. Returns true when the
// update changes layout (a slot appeared, disappeared, or toggled hidden);
// in-place byte updates of an existing slot return false.
func (m *Media) SetData(linkID LinkID, mime string, data []byte, flags MediaFlags) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, it := range m.items {
		if it.linkID != linkID {
			continue
		}
		if data == nil {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
		layoutChanged := (it.flags&MediaHidden != 0) != (flags&MediaHidden != 0)
		it.mime = mime
		it.data = data
		it.flags = flags
		return layoutChanged
	}
	if data == nil {
		return false
	}
	m.items = append(m.items, &mediaSlot{linkID: linkID, mime: mime, data: data, flags: flags})
	return true
}

// SetHidden toggles dismissal of a slot, retaining its content. Returns
// true if the slot exists and its visibility changed.
func (m *Media) SetHidden(linkID LinkID, hidden bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, it := range m.items {
		if it.linkID != linkID {
			continue
		}
		was := it.flags&MediaHidden != 0
		if was == hidden {
			return false
		}
		if hidden {
			it.flags |= MediaHidden
		} else {
			it.flags &^= MediaHidden
		}
		return true
	}
	return false
}

// ForLink returns the slot content for a link, if any.
func (m *Media) ForLink(linkID LinkID) (mime string, data []byte, flags MediaFlags, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, it := range m.items {
		if it.linkID == linkID {
			return it.mime, it.data, it.flags, true
		}
	}
	return "", nil, 0, false
}

// Clear drops all slots.
func (m *Media) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
}

// visible returns slots that should appear in layout, in insertion order.
func (m *Media) visible() []*mediaSlot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*mediaSlot, 0, len(m.items))
	for _, it := range m.items {
		if it.flags&MediaHidden == 0 {
			out = append(out, it)
		}
	}
	return out
}
