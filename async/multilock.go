/*
Copyright 2017 Albert Tedja
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at
    http://www.apache.org/licenses/LICENSE-2.0
Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package async

import (
	"runtime"
	"sort"
	"sync"
)

// unique returns keys with duplicates removed, preserving first occurrence
// order.
func unique(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

type lockEntry struct {
	ch    chan struct{}
	count int
}

var locks = struct {
	sync.Mutex
	list map[string]*lockEntry
}{list: make(map[string]*lockEntry)}

// getChan returns the binary-semaphore channel for key, creating and
// seeding it on first use, and marks one outstanding claim against it.
func getChan(key string) chan struct{} {
	locks.Lock()
	defer locks.Unlock()
	e, ok := locks.list[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		e.ch <- struct{}{}
		locks.list[key] = e
	}
	e.count++
	return e.ch
}

// releaseChan clears one outstanding claim against key, removing its entry
// once no claim remains.
func releaseChan(key string) {
	locks.Lock()
	defer locks.Unlock()
	e, ok := locks.list[key]
	if !ok {
		return
	}
	e.count--
	if e.count <= 0 {
		delete(locks.list, key)
	}
}

// Clean removes any lock entries with no outstanding claims, returning the
// keys it removed. A currently-held or currently-claimed key is never
// touched, so Clean is safe to call concurrently with live locking.
func Clean() []string {
	locks.Lock()
	defer locks.Unlock()
	removed := []string{}
	for k, e := range locks.list {
		if e.count <= 0 {
			delete(locks.list, k)
			removed = append(removed, k)
		}
	}
	return removed
}

// Multilock locks a fixed set of string-keyed resources together, always
// acquiring them in sorted order so two Multilocks sharing some keys can
// never deadlock each other.
type Multilock struct {
	keys []string
}

// NewMultilock builds a Multilock over keys, deduplicated and sorted.
func NewMultilock(keys ...string) *Multilock {
	u := unique(keys)
	sorted := make([]string, len(u))
	copy(sorted, u)
	sort.Strings(sorted)
	return &Multilock{keys: sorted}
}

// Lock acquires every key this Multilock covers, in sorted order.
func (m *Multilock) Lock() {
	for _, k := range m.keys {
		ch := getChan(k)
		<-ch
	}
}

// Unlock releases every key this Multilock covers, in reverse order.
func (m *Multilock) Unlock() {
	for i := len(m.keys) - 1; i >= 0; i-- {
		k := m.keys[i]
		locks.Lock()
		e, ok := locks.list[k]
		locks.Unlock()
		if ok {
			e.ch <- struct{}{}
		}
		releaseChan(k)
	}
}

// Yield releases the lock and immediately re-acquires it, giving other
// goroutines contending on any of its keys a chance to make progress. Used
// for condition-variable-style polling loops that need to hold some keys
// while waiting on state guarded by others.
func (m *Multilock) Yield() {
	m.Unlock()
	runtime.Gosched()
	m.Lock()
}
