package execution

import (
	"encoding/binary"

	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/storage"
)

// ExecutionHashTable is a generic wrapper around a Go map keyed by tuples.
// It is meant for single-threaded execution operators (Aggregates).
type ExecutionHashTable[T any] struct {
	// The map key is an encoding of the key tuple's values. Go does not support slices as keys.
	table map[string]entry[T]

	// scratchBuffer is a reusable byte slice for encoding keys during lookups.
	scratchBuffer []byte
}

type entry[T any] struct {
	key   storage.Tuple
	value T
}

func NewExecutionHashTable[T any]() *ExecutionHashTable[T] {
	return &ExecutionHashTable[T]{
		table: make(map[string]entry[T]),
	}
}

// encodeKey writes a self-delimiting encoding of key into the scratch buffer.
func (ht *ExecutionHashTable[T]) encodeKey(key storage.Tuple) []byte {
	buf := ht.scratchBuffer[:0]
	for i := 0; i < key.NumColumns(); i++ {
		v := key.GetValue(i)
		buf = append(buf, byte(v.Type()))
		if v.IsNull() {
			buf = append(buf, 1)
			continue
		}
		buf = append(buf, 0)
		switch v.Type() {
		case common.IntType:
			buf = binary.LittleEndian.AppendUint64(buf, uint64(v.IntValue()))
		case common.StringType:
			buf = binary.AppendUvarint(buf, uint64(len(v.StringValue())))
			buf = append(buf, v.StringValue()...)
		}
	}
	ht.scratchBuffer = buf
	return buf
}

// Insert adds a value to the hash table, replacing any value stored under an equal key.
func (ht *ExecutionHashTable[T]) Insert(key storage.Tuple, value T) {
	ht.table[string(ht.encodeKey(key))] = entry[T]{key: key, value: value}
}

// Get returns the value stored under key.
func (ht *ExecutionHashTable[T]) Get(key storage.Tuple) (value T, exists bool) {
	// Go should automatically optimize and avoid a heap allocation here
	e, exists := ht.table[string(ht.encodeKey(key))]
	return e.value, exists
}

// Delete removes the key-value pair from the hash table.
func (ht *ExecutionHashTable[T]) Delete(key storage.Tuple) {
	delete(ht.table, string(ht.encodeKey(key)))
}

func (ht *ExecutionHashTable[T]) Len() int {
	return len(ht.table)
}

// Iterate loops over all key-value pairs in the hash table and calls the provided callback function for each.
// The order is unspecified.
func (ht *ExecutionHashTable[T]) Iterate(iter func(key storage.Tuple, value T)) {
	for _, e := range ht.table {
		iter(e.key, e.value)
	}
}
