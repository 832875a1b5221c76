// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Hash functions

func _TRIPLE(a, b, c, len int) int {
	return int(_PAIR64(uint64(c), _PAIR(a, b, len), uint64(len)))
}

// _PAIR is a mapping function that maps (bijectively) a pair of integer (a, b)
// into a unique integer. It is therefore a perfect hash: no collisions
func _PAIR(a, b, len int) uint64 {
	return (((uint64(a+b) * uint64(a+b+1)) / 2) + uint64(a)) % uint64(len)
}

func _PAIR64(a, b, len uint64) uint64 {
	return (((((a + b) % len) * ((a + b + 1) % len)) / 2) + a) % len
}

// ************************************************************

// The hash function for nodes is #(level, low, high). Nodes are hashed over
// their 20 bytes little-endian encoding; the pairing functions above give
// poor dispersion for nodes sharing the same children.

func (b *Kernel) nodehash(level int32, low, high int) int {
	var buf [20]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(level))
	binary.LittleEndian.PutUint64(buf[4:12], uint64(low))
	binary.LittleEndian.PutUint64(buf[12:20], uint64(high))
	return int(xxhash.Sum64(buf[:]) % uint64(len(b.nodes)))
}

func (b *Kernel) ptrhash(n int) int {
	return b.nodehash(b.nodes[n].level&_MAXVAR, b.nodes[n].low, b.nodes[n].high)
}

// ************************************************************

// The hash function for operation Not(n) is simply n.

func (b *Kernel) matchnot(n int) int {
	entry := b.applycache.table[n%len(b.applycache.table)]
	if entry.a == n && entry.c == int(op_not) {
		b.cachehit()
		return entry.res
	}
	b.cachemiss()
	return -1
}

func (b *Kernel) setnot(n int, res int) int {
	if res < 0 {
		return -1
	}
	b.applycache.table[n%len(b.applycache.table)] = cacheData{
		a:   n,
		b:   -1,
		c:   int(op_not),
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for Apply is #(left, right, op).

func (b *Kernel) matchapply(left, right int, op Operator) int {
	entry := b.applycache.table[_TRIPLE(left, right, int(op), len(b.applycache.table))]
	if entry.a == left && entry.b == right && entry.c == int(op) {
		b.cachehit()
		return entry.res
	}
	b.cachemiss()
	return -1
}

func (b *Kernel) setapply(left, right int, op Operator, res int) int {
	if res < 0 {
		return -1
	}
	b.applycache.table[_TRIPLE(left, right, int(op), len(b.applycache.table))] = cacheData{
		a:   left,
		b:   right,
		c:   int(op),
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for ITE is #(f,g,h).

func (b *Kernel) matchite(f, g, h int) int {
	entry := b.itecache.table[_TRIPLE(f, g, h, len(b.itecache.table))]
	if entry.a == f && entry.b == g && entry.c == h {
		b.cachehit()
		return entry.res
	}
	b.cachemiss()
	return -1
}

func (b *Kernel) setite(f, g, h, res int) int {
	if res < 0 {
		return -1
	}
	b.itecache.table[_TRIPLE(f, g, h, len(b.itecache.table))] = cacheData{
		a:   f,
		b:   g,
		c:   h,
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for quantification is simply n. The id of the cache
// encodes the variable set and the kind of quantifier.

func (b *Kernel) matchquant(n int) int {
	entry := b.quantcache.table[n%len(b.quantcache.table)]
	if entry.a == n && entry.c == b.quantcache.id {
		b.cachehit()
		return entry.res
	}
	b.cachemiss()
	return -1
}

func (b *Kernel) setquant(n int, res int) int {
	if res < 0 {
		return -1
	}
	b.quantcache.table[n%len(b.quantcache.table)] = cacheData{
		a:   n,
		b:   -1,
		c:   b.quantcache.id,
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for AppEx is #(left, right)

func (b *Kernel) matchappex(left, right int) int {
	entry := b.appexcache.table[int(_PAIR(left, right, len(b.appexcache.table)))]
	if entry.a == left && entry.b == right && entry.c == b.appexcache.id {
		b.cachehit()
		return entry.res
	}
	b.cachemiss()
	return -1
}

func (b *Kernel) setappex(left, right, res int) int {
	if res < 0 {
		return -1
	}
	b.appexcache.table[int(_PAIR(left, right, len(b.appexcache.table)))] = cacheData{
		a:   left,
		b:   right,
		c:   b.appexcache.id,
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for operation Replace(n) is simply n.

func (b *Kernel) matchreplace(n int) int {
	entry := b.replacecache.table[n%len(b.replacecache.table)]
	if entry.a == n && entry.c == b.replacecache.id {
		b.cachehit()
		return entry.res
	}
	b.cachemiss()
	return -1
}

func (b *Kernel) setreplace(n int, res int) int {
	if res < 0 {
		return -1
	}
	b.replacecache.table[n%len(b.replacecache.table)] = cacheData{
		a:   n,
		b:   -1,
		c:   b.replacecache.id,
		res: res,
	}
	return res
}

// ************************************************************

// The misc cache is shared by Restrict, hashed on n only, and Compose, hashed
// on #(f, g). Entries are distinguished by their id.

func (b *Kernel) matchmisc(f, g int) int {
	entry := b.misccache.table[int(_PAIR(f, g, len(b.misccache.table)))]
	if entry.a == f && entry.b == g && entry.c == b.misccache.id {
		b.cachehit()
		return entry.res
	}
	b.cachemiss()
	return -1
}

func (b *Kernel) setmisc(f, g, res int) int {
	if res < 0 {
		return -1
	}
	b.misccache.table[int(_PAIR(f, g, len(b.misccache.table)))] = cacheData{
		a:   f,
		b:   g,
		c:   b.misccache.id,
		res: res,
	}
	return res
}
