package compactgo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/compactgo"
	"github.com/hupe1980/compactgo/record"
)

func Example() {
	// A compacted log: several versions of the same keys.
	dirty := []*record.Simple{
		{K: []byte("user-1"), Off: 0, Bytes: 32},
		{K: []byte("user-2"), Off: 1, Bytes: 32},
		{K: []byte("user-1"), Off: 2, Bytes: 32},
		{K: []byte("user-2"), Off: 3, Bytes: 32},
	}

	scan := func(yield func(record.Record, error) bool) {
		for _, r := range dirty {
			if !yield(r, nil) {
				return
			}
		}
	}

	cleaner, err := compactgo.New(24 * 1024) // 24 KiB index budget
	if err != nil {
		log.Fatal(err)
	}

	if _, err := cleaner.BuildIndex(context.Background(), scan); err != nil {
		log.Fatal(err)
	}

	for _, r := range dirty {
		fmt.Printf("offset %d key %s retain=%v\n", r.Off, r.K, cleaner.ShouldRetain(r))
	}
	// Output:
	// offset 0 key user-1 retain=false
	// offset 1 key user-2 retain=false
	// offset 2 key user-1 retain=true
	// offset 3 key user-2 retain=true
}
