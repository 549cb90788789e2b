package literate

// ReferenceMap owns all CodeBlocks parsed in one tangle/stitch session. It
// keeps three indices: an insertion-ordered primary index, a name index
// (including bare-name aliases for blocks that carry both a #name and a
// file= target), and a target-path index.
type ReferenceMap struct {
	order    []ReferenceId
	blocks   map[ReferenceId]CodeBlock
	byName   map[ReferenceName][]ReferenceId
	counters map[ReferenceName]int
	targets  map[string]ReferenceName // canonical path -> name composing it
	aliasTo  map[string]string        // bare symbol -> target path it was first seen aliasing
	sources  map[string]bool
}

func NewReferenceMap() *ReferenceMap {
	return &ReferenceMap{
		blocks:   map[ReferenceId]CodeBlock{},
		byName:   map[ReferenceName][]ReferenceId{},
		counters: map[ReferenceName]int{},
		targets:  map[string]ReferenceName{},
		aliasTo:  map[string]string{},
		sources:  map[string]bool{},
	}
}

// MarkSource records that path was actually read in this session, per
// invariant 4 (a block's origin.source must be a path that was read).
func (m *ReferenceMap) MarkSource(path string) { m.sources[path] = true }

// Insert assigns an ordinal to block (by its primary name) and indexes it.
// When the block carries both a #name (bareName) and a file= target, the
// block's primary identity is the target-based name, and bareName is
// registered as an alias in the name index resolving to the same ids.
func (m *ReferenceMap) Insert(block CodeBlock) (ReferenceId, error) {
	bareName := block.Name
	var primary ReferenceName
	if block.Target != "" {
		primary = ReferenceName{Target: block.Target}
		m.targets[block.Target] = primary
		if bareName != "" {
			if prevTarget, ok := m.aliasTo[bareName]; ok && prevTarget != block.Target {
				return ReferenceId{}, newErr(KindReferenceError, block.Origin.SourcePath, block.Origin.OpenerLine, bareName,
					"name "+bareName+" targets both "+prevTarget+" and "+block.Target)
			}
			m.aliasTo[bareName] = block.Target
		}
	} else {
		primary = ReferenceName{Symbol: bareName}
	}

	ord := m.counters[primary]
	m.counters[primary]++
	id := ReferenceId{Name: primary, Ordinal: ord}
	block.Id = id
	m.blocks[id] = block
	m.order = append(m.order, id)
	m.byName[primary] = append(m.byName[primary], id)

	if block.Target != "" && bareName != "" {
		alias := ReferenceName{Symbol: bareName}
		m.byName[alias] = append(m.byName[alias], id)
	}

	return id, nil
}

func (m *ReferenceMap) Get(id ReferenceId) (CodeBlock, bool) {
	b, ok := m.blocks[id]
	return b, ok
}

// ByName returns the ordered ids for a name (by Symbol, for <<ref>>
// expansion lookups).
func (m *ReferenceMap) ByName(symbol string) []ReferenceId {
	return m.byName[ReferenceName{Symbol: symbol}]
}

func (m *ReferenceMap) ContainsName(symbol string) bool {
	return len(m.ByName(symbol)) > 0
}

// Targets iterates registered (path, name) pairs.
func (m *ReferenceMap) Targets() map[string]ReferenceName {
	out := make(map[string]ReferenceName, len(m.targets))
	for k, v := range m.targets {
		out[k] = v
	}
	return out
}

// BlocksFor returns the ordered CodeBlocks indexed under name (used by the
// tangle engine). A bare symbol that is an alias of a file target resolves
// to that target's blocks.
func (m *ReferenceMap) BlocksFor(name ReferenceName) []CodeBlock {
	ids := m.byName[name]
	out := make([]CodeBlock, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.blocks[id])
	}
	return out
}

func (m *ReferenceMap) WasRead(path string) bool { return m.sources[path] }

// Order returns all ids in insertion order.
func (m *ReferenceMap) Order() []ReferenceId { return append([]ReferenceId(nil), m.order...) }
