package crack

// candidate is a decryption permutation: perm[c] is the plaintext position
// of ciphertext position c.
type candidate struct {
	score float64
	perm  []int
}

// frontier keeps the best candidates seen, ordered by ascending score. A
// candidate tied with existing entries goes after them, so the earliest of
// equally scored candidates stays in front.
type frontier struct {
	size    int
	entries []candidate
}

func newFrontier(size int) *frontier {
	if size < 1 {
		size = 1
	}
	return &frontier{size: size, entries: make([]candidate, 0, min(size, 64)+1)}
}

// insert adds c unless the frontier is full of candidates at least as good.
func (f *frontier) insert(c candidate) {
	pos := len(f.entries)
	for i, e := range f.entries {
		if c.score < e.score {
			pos = i
			break
		}
	}
	if pos >= f.size {
		return
	}
	f.entries = append(f.entries, candidate{})
	copy(f.entries[pos+1:], f.entries[pos:])
	f.entries[pos] = c
	if len(f.entries) > f.size {
		f.entries = f.entries[:f.size]
	}
}

func (f *frontier) best() candidate { return f.entries[0] }

func (f *frontier) len() int { return len(f.entries) }
