// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package grammar

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// EOD is the reserved token ID for "end of data", per spec.md §4.E: every
// grammar's FOLLOW computation seeds the root production's follow set with
// this synthetic marker instead of leaving it empty.
const EOD uint32 = 0

// tokenIDSpace bounds every token ID below 2^16, so that a TokenSet's
// bitset never grows past 8 KiB however a literal happens to hash.
const tokenIDSpace = 1 << 16

// TokenSet is a set of token IDs, backed by a bitset.BitSet so that the
// FIRST/FOLLOW fixpoint (which unions thousands of small sets across many
// rounds) stays cheap. The changed-bool contract of MergeFrom mirrors the
// teacher's own bit.Set.Union, which the fixpoint-until-no-growth idiom in
// this codebase is built around.
type TokenSet struct {
	bits *bitset.BitSet
}

// NewTokenSet constructs an empty token set.
func NewTokenSet() *TokenSet {
	return &TokenSet{bitset.New(64)}
}

// Add records id as a member.
func (s *TokenSet) Add(id uint32) {
	s.bits.Set(uint(id))
}

// Contains reports whether id is a member.
func (s *TokenSet) Contains(id uint32) bool {
	return s.bits.Test(uint(id))
}

// Clone returns an independent copy.
func (s *TokenSet) Clone() *TokenSet {
	return &TokenSet{s.bits.Clone()}
}

// MergeFrom unions other into s in place, returning whether s grew — the
// signal the Phase 2 fixpoint loop uses to decide whether another round is
// needed.
func (s *TokenSet) MergeFrom(other *TokenSet) bool {
	before := s.bits.Count()
	s.bits.InPlaceUnion(other.bits)

	return s.bits.Count() != before
}

// Intersects reports whether s and other share any member — the test
// Phase 3 uses to detect an ambiguous pair of look-ahead alternatives.
func (s *TokenSet) Intersects(other *TokenSet) bool {
	return s.bits.Intersection(other.bits).Any()
}

// Members returns every token ID in s, ascending, for diagnostic
// rendering.
func (s *TokenSet) Members() []uint32 {
	members := make([]uint32, 0, s.bits.Count())

	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		members = append(members, uint32(i))
	}

	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })

	return members
}

func (s *TokenSet) String() string {
	members := s.Members()
	parts := make([]string, len(members))

	for i, m := range members {
		if m == EOD {
			parts[i] = "EOD"
		} else {
			parts[i] = fmt.Sprintf("#%d", m)
		}
	}

	return "{" + strings.Join(parts, ",") + "}"
}

// intersectionString renders the members s and other have in common, for
// use in an ambiguity diagnostic's message.
func (s *TokenSet) intersectionString(other *TokenSet) string {
	shared := &TokenSet{s.bits.Intersection(other.bits)}
	return shared.String()
}

// tokenTable assigns stable token IDs to literal productions within one
// Grammar build, hashing each literal's unified representation and
// re-hashing with an incrementing salt whenever two distinct literals
// collide (spec.md §4.E).
type tokenTable struct {
	ids  map[string]uint32
	used map[uint32]string
}

func newTokenTable() *tokenTable {
	return &tokenTable{ids: make(map[string]uint32), used: map[uint32]string{EOD: "<eod>"}}
}

func (t *tokenTable) idFor(key string) uint32 {
	if id, ok := t.ids[key]; ok {
		return id
	}

	for salt := uint32(0); ; salt++ {
		id := fnv32aSalted(key, salt) % tokenIDSpace
		if id == EOD {
			continue
		}

		if owner, taken := t.used[id]; !taken || owner == key {
			t.ids[key] = id
			t.used[id] = key

			return id
		}
	}
}

func fnv32aSalted(key string, salt uint32) uint32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s\x00%d", key, salt)

	return h.Sum32()
}
