// Copyright 2021. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package bdd

import (
	"go.uber.org/zap"
)

// ************************************************************
// cache is used for caching apply/exist etc. results
type cache struct {
	cacheratio int // ratio (%) between the size of the cache and the number of nodes
	table      []cacheData
}

// cacheStat stores status information about cache usage
type cacheStat struct {
	uniqueAccess int // accesses to the unique node table
	uniqueChain  int // iterations through the cache chains in the unique node table
	uniqueHit    int // entries actually found in the the unique node table
	uniqueMiss   int // entries not found in the the unique node table
	opHit        int // entries found in the operator caches
	opMiss       int // entries not found in the operator caches
}

// cacheData is a unit of information stored in the operation caches. An entry
// is invalid when a is -1.
type cacheData struct {
	res int
	a   int
	b   int
	c   int
}

// ************************************************************

// Different kind of caches used in the kernel

type applycache struct {
	cache // Cache for apply and not results; the operator is stored in c
}

type itecache struct {
	cache // Cache for ITE results
}

type quantcache struct {
	cache     // Cache for exist/forall/unique results
	id    int // Current cache id for quantifications
}

// appexcache are a mix of quant and apply caches
type appexcache struct {
	cache     // Cache for appex results
	id    int // Current cache id, combining the varset and the operator
}

type replacecache struct {
	cache     // Cache for replace results
	id    int // Current cache id for replace
}

type misccache struct {
	cache     // Cache for restrict and compose results
	id    int // Current cache id for misc computations
}

// ************************************************************

// Hash value modifiers to distinguish between entries in misccache
const cacheid_RESTRICT int = 0x1
const cacheid_COMPOSE int = 0x2

// Hash value modifiers for replace
const cacheid_REPLACE int = 0x0

// Hash value modifiers for quantification
const cacheid_EXIST int = 0x0
const cacheid_FORALL int = 0x1
const cacheid_UNIQUE int = 0x2

// ************************************************************

// init allocates a table with at least size entries.
func (bc *cache) init(size int, ratio int) {
	bc.cacheratio = ratio
	bc.table = make([]cacheData, bdd_prime_gte(size))
	bc.reset()
}

// resize follows the size of the node table when the cache has a ratio. The
// content of the cache is always lost.
func (bc *cache) resize(nodesize int) {
	if bc.cacheratio > 0 {
		size := bdd_prime_gte((nodesize * bc.cacheratio) / 100)
		if size != len(bc.table) {
			bc.table = make([]cacheData, size)
		}
	}
	bc.reset()
}

func (bc *cache) reset() {
	for k := range bc.table {
		bc.table[k].a = -1
	}
}

// caches returns the operation caches of the kernel.
func (b *Kernel) caches() []*cache {
	return []*cache{
		&b.applycache.cache,
		&b.itecache.cache,
		&b.quantcache.cache,
		&b.appexcache.cache,
		&b.replacecache.cache,
		&b.misccache.cache,
	}
}

func (b *Kernel) cacheinit(cachesize int, cacheratio int) {
	if cacheratio > 0 {
		cachesize = (len(b.nodes) * cacheratio) / 100
	}
	if cachesize <= 0 {
		cachesize = len(b.nodes)/5 + 1
	}
	for _, c := range b.caches() {
		c.init(cachesize, cacheratio)
	}
}

func (b *Kernel) cachedone() {
	for _, c := range b.caches() {
		c.table = nil
	}
}

func (b *Kernel) cachereset() {
	for _, c := range b.caches() {
		c.reset()
	}
}

func (b *Kernel) cacheresize() {
	for _, c := range b.caches() {
		c.resize(len(b.nodes))
	}
}

func (b *Kernel) cachehit() {
	if _DEBUG {
		b.cachestat.opHit++
	}
}

func (b *Kernel) cachemiss() {
	if _DEBUG {
		b.cachestat.opMiss++
	}
}

// SetCacheratio sets the cache ratio (%) for the operator caches. With a
// ratio of r, we allocate r cache entries for every 100 nodes in the table.
// The caches are resized instantly to fit the new ratio.
func (b *Kernel) SetCacheratio(r int) error {
	if err := b.checkrunning("SetCacheratio"); err != nil {
		return err
	}
	if r <= 0 {
		return b.fail(ErrRange, "negative ratio (%d) in call to SetCacheratio", r)
	}
	for _, c := range b.caches() {
		c.cacheratio = r
	}
	b.cacheresize()
	return nil
}

// fields returns the counters as logging fields. They are only updated in
// debug builds.
func (c cacheStat) fields() []zap.Field {
	return []zap.Field{
		zap.Int("uniqueAccess", c.uniqueAccess),
		zap.Int("uniqueChain", c.uniqueChain),
		zap.Int("uniqueHit", c.uniqueHit),
		zap.Int("uniqueMiss", c.uniqueMiss),
		zap.Int("opHit", c.opHit),
		zap.Int("opMiss", c.opMiss),
	}
}
