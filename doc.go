// Package marl is the Composition Root for the Marl library.
//
// It connects the instance lifecycle engine (Domain Layer) with the store
// adapters (Persistence Layer) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// Marl is the document-mapping sibling of a storage engine: it tracks one
// in-memory representation of a stored document, computes the minimal
// change set against the backing store, and reconciles local state with
// the authoritative remote copy after writes, refreshes and deletes.
// While the default adapters use process memory and a single serialized
// file, Marl's core is agnostic, allowing for other backends (SQL, S3,
// NoSQL) via core.Store.
//
// Features:
//
//   - **Diff-based saves**: Partial updates from deep snapshot comparison,
//     never full-document overwrites.
//   - **Lifecycle tracking**: New/partial flags, three-phase save
//     (validate, persist, reconcile), re-entrant refresh semantics.
//   - **Pluggable collaborators**: Condition builder, validator, ordered
//     lifecycle hooks and an optional read-through cache.
//   - **Typed Retrieval**: Generic wrapper (`NewTyped[T]`) for type-safe
//     document access.
//   - **Default Adapters**: In-memory store for tests, flock-guarded
//     JSON/YAML file store with change watching.
//
// Usage:
//
//	// Initialize a model with functional options
//	users, err := marl.New("./data/users.json",
//		marl.WithCache(memory.NewCache()),
//		marl.WithLogger(logger),
//	)
//
//	// Create, mutate, save
//	u := users.Create(marl.Document{"name": "Demo1"})
//	err = u.Save(ctx)
//	u.Document()["name"] = "Demo2"
//	err = u.Save(ctx) // partial update: {$set: {name: Demo2}}
package marl
