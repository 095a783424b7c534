// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package block

import "go/token"

// Factory creates and manages [Block]s in a [slab list].
//
// [slab list]: https://en.wikipedia.org/wiki/Slab_allocation
type Factory struct {
	start, current *chunk
	count, total   int

	// OnNew is called for each created block.
	OnNew func(*Block)
}

// chunk is a linked list of fixed-size arrays of Blocks.
type chunk struct {
	blocks [chunkSize]Block
	next   *chunk
}

// chunkSize defines the number of Blocks stored in a single chunk.
const chunkSize = 127

// New creates and returns a new *[Block] and adds it to the list of existing blocks.
func (f *Factory) New(pos token.Pos) *Block {
	if f.count == chunkSize {
		f.current.next = new(chunk)
		f.current = f.current.next
		f.count = 0
		f.total += chunkSize
	} else if f.current == nil {
		f.current = new(chunk)
		f.start = f.current
	}

	f.count++

	block := &f.current.blocks[f.count-1]
	block.Pos = pos
	block.Index = f.total + f.count - 1

	if f.OnNew != nil {
		f.OnNew(block)
	}

	return block
}

// Len returns the number of created blocks.
func (f *Factory) Len() int {
	return f.total + f.count
}

// All retrieves all Blocks managed by the Factory in creation order, so that
// all[i].Index == i.
func (f *Factory) All() []*Block {
	if f.current == nil {
		return nil
	}

	blocks := make([]*Block, 0, f.Len())
	for next := f.start; next != nil; next = next.next {
		n := chunkSize
		if next == f.current {
			n = f.count
		}

		for i := range n {
			blocks = append(blocks, &next.blocks[i])
		}
	}

	return blocks
}
