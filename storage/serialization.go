// Copyright 2025 Poiesic Systems
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


package storage

import (
	"fmt"

	"github.com/poiesic/exocortex/core"
)

// MarshalMemory serializes a Memory to bytes.
func MarshalMemory(memory *core.Memory) []byte {
	buf := make([]byte, core.MemoryMUS.Size(*memory))
	core.MemoryMUS.Marshal(*memory, buf)
	return buf
}

// UnmarshalMemory deserializes a Memory from bytes.
func UnmarshalMemory(data []byte) (*core.Memory, error) {
	memory, _, err := core.MemoryMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &memory, nil
}
