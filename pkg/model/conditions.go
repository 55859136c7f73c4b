package model

import "github.com/aretw0/marl/pkg/core"

// KeyBuilder is the default condition builder. It selects documents by a
// single identifying field and maps that field (plus any extra renames)
// between the in-memory and storage representations.
//
// With the defaults, in-memory "id" is stored as "_id". A document without
// an identifying field falls back to whole-document value equality.
type KeyBuilder struct {
	// MemoryKey is the identifying field's in-memory name.
	MemoryKey string

	// StoreKey is the identifying field's storage name.
	StoreKey string

	// Renames lists additional in-memory -> storage field renames.
	Renames map[string]string
}

// NewKeyBuilder returns a KeyBuilder with the id/_id defaults.
func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{MemoryKey: "id", StoreKey: "_id"}
}

// SelectOne derives a condition selecting exactly the given document.
func (b *KeyBuilder) SelectOne(doc core.Document) core.Conditions {
	if v, ok := doc[b.MemoryKey]; ok {
		return core.Conditions{b.MemoryKey: core.DeepCopyValue(v)}
	}
	// No identifier yet: select by full value equality.
	return core.Conditions(doc.Clone())
}

// SelectOneDownstream matches SelectOne; the default builder draws no
// distinction between direct and merged selection.
func (b *KeyBuilder) SelectOneDownstream(doc core.Document) core.Conditions {
	return b.SelectOne(doc)
}

// Apply maps field names from storage to memory.
func (b *KeyBuilder) Apply(doc core.Document) core.Document {
	renames := map[string]string{b.StoreKey: b.MemoryKey}
	for mem, sto := range b.Renames {
		renames[sto] = mem
	}
	return renameFields(doc, renames)
}

// Reverse maps field names from memory to storage.
func (b *KeyBuilder) Reverse(doc core.Document) core.Document {
	renames := map[string]string{b.MemoryKey: b.StoreKey}
	for mem, sto := range b.Renames {
		renames[mem] = sto
	}
	return renameFields(doc, renames)
}

func renameFields(doc core.Document, renames map[string]string) core.Document {
	out := make(core.Document, len(doc))
	for k, v := range doc {
		if mapped, ok := renames[k]; ok {
			k = mapped
		}
		out[k] = core.DeepCopyValue(v)
	}
	return out
}

var _ core.ConditionBuilder = (*KeyBuilder)(nil)
