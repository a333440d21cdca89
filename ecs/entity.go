package ecs

import "strconv"

// Entity packs a 32-bit index and a 32-bit generation. Index 0 is never
// handed out, so the zero Entity is invalid.
type Entity uint64

type entityIndex = uint32
type generation = uint32

const entityIndexBits = 32

func makeEntity(index entityIndex, gen generation) Entity {
	return Entity(uint64(gen)<<entityIndexBits | uint64(index))
}

// Index is the storage row of the entity; it is reused after destruction.
func (e Entity) Index() uint32 {
	return uint32(e)
}

func (e Entity) Generation() uint32 {
	return uint32(uint64(e) >> entityIndexBits)
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.Index()), 10) + "v" + strconv.FormatUint(uint64(e.Generation()), 10)
}

func (e Entity) Valid() bool {
	return e.Index() > 0
}
