package gid

// Entry is one observed (local GID, flags) pair for a raw identifier.
type Entry struct {
	Local Local
	Flags Flags
}

type registryKey struct {
	raw   Raw
	flags Flags
}

// Registry interns (raw GID, flags) pairs into dense local GIDs.
//
// Registration is idempotent: the same pair always yields the same local GID,
// so a layer grid may reference millions of cells while the registry only
// grows with the number of distinct (tile, orientation) combinations in use.
// A Registry is not safe for concurrent use; every map load owns its own.
type Registry struct {
	next    Local
	locals  map[registryKey]Local
	byRaw   map[Raw][]Entry
	byLocal map[Local]registryKey
	decoded map[uint32]registryKey
}

func NewRegistry() *Registry {
	return &Registry{
		next:    1,
		locals:  make(map[registryKey]Local),
		byRaw:   make(map[Raw][]Entry),
		byLocal: make(map[Local]registryKey),
		decoded: make(map[uint32]registryKey),
	}
}

// Register interns the (raw, flags) pair and returns its local GID.
// A raw identifier of zero means "no tile" and is returned as zero without
// allocating.
func (r *Registry) Register(raw Raw, flags Flags) Local {
	if raw == 0 {
		return 0
	}

	key := registryKey{raw: raw, flags: flags}
	if local, seen := r.locals[key]; seen {
		return local
	}

	local := r.next
	r.next++
	r.locals[key] = local
	r.byRaw[raw] = append(r.byRaw[raw], Entry{Local: local, Flags: flags})
	r.byLocal[local] = key
	return local
}

// RegisterRaw decodes the flag bits of a wire value and registers the result.
// Identical wire values recur across a large grid, so the decode step is
// memoized per registry.
func (r *Registry) RegisterRaw(value uint32) Local {
	if value < FlippedDiagonally {
		return r.Register(Raw(value), EmptyFlags)
	}
	key, seen := r.decoded[value]
	if !seen {
		raw, flags := Decode(value)
		key = registryKey{raw: raw, flags: flags}
		r.decoded[value] = key
	}
	return r.Register(key.raw, key.flags)
}

// LocalsOf returns every (local GID, flags) pair observed for a raw
// identifier, in registration order. The result is nil for unseen raws.
func (r *Registry) LocalsOf(raw Raw) []Entry {
	entries := r.byRaw[raw]
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// RawOf returns the raw identifier a local GID was allocated for.
func (r *Registry) RawOf(local Local) (Raw, bool) {
	key, ok := r.byLocal[local]
	return key.raw, ok
}

// EntryOf returns the originating raw identifier and flags of a local GID.
func (r *Registry) EntryOf(local Local) (Raw, Flags, bool) {
	key, ok := r.byLocal[local]
	return key.raw, key.flags, ok
}

// Count returns the number of allocated local GIDs.
func (r *Registry) Count() int {
	return len(r.locals)
}
