package marl_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/marl"
)

// ExampleNew demonstrates the full lifecycle of a document instance against
// the in-memory adapter.
func ExampleNew() {
	ctx := context.Background()

	m, err := marl.New("", marl.WithAdapter("memory"))
	if err != nil {
		log.Fatal(err)
	}

	inst := m.Create(marl.Document{"name": "Demo1", "level": 1})
	if err := inst.Save(ctx); err != nil {
		log.Fatal(err)
	}

	// Mutate the working document and persist only the difference.
	inst.Document()["level"] = 2
	if err := inst.Save(ctx); err != nil {
		log.Fatal(err)
	}

	doc := inst.Document()
	fmt.Println(doc["name"], doc["level"], inst.IsNew())
	// Output: Demo1 2 false
}

// ExampleDiff shows the change set computed between two snapshots.
func ExampleDiff() {
	before := marl.Document{"name": "Demo1", "tag": "old"}
	after := marl.Document{"name": "Demo2"}

	changes := marl.Diff(before, after)
	_, removed := changes["$unset"]["tag"]
	fmt.Println(changes["$set"]["name"])
	fmt.Println(removed)
	// Output:
	// Demo2
	// true
}

// ExampleAsync adapts a blocking operation to completion-channel style.
func ExampleAsync() {
	done := marl.Async(func() error { return nil })
	fmt.Println(<-done)
	// Output: <nil>
}

func ExampleFirst() {
	v, ok := marl.First([]int{1, 2, 3}, func(value, index int) bool {
		return value > 1
	})
	fmt.Println(v, ok)
	// Output: 2 true
}
