package values

// Ref aliases one slot of a heap. It owns nothing and is valid only while the
// heap is alive; every access re-validates the slot against the current size.
type Ref struct {
	heap  *Heap
	index int
}

func (r Ref) Heap() *Heap {
	return r.heap
}

func (r Ref) Slot() int {
	return r.index
}

// Get copies the referenced element out. A slot holding a nested Value yields
// that Value itself, sharing its storage.
func (r Ref) Get() (Value, error) {
	s, i, err := r.heap.locate("deref", r.index)
	if err != nil {
		return Value{}, err
	}
	return s.element(i, false), nil
}

// Set writes v into the referenced slot. The parent heap is never reallocated.
func (r Ref) Set(v Value) error {
	s, i, err := r.heap.locate("assign", r.index)
	if err != nil {
		return err
	}
	return s.store("assign", i, v, false)
}

func (r Ref) Defined() bool {
	v, err := r.Get()
	return err == nil && v.Defined()
}

// slot returns the nested Value stored in the referenced slot, in place.
func (r Ref) slot(op string) (*Value, error) {
	s, i, err := r.heap.locate(op, r.index)
	if err != nil {
		return nil, err
	}
	switch data := s.data.(type) {
	case []Value:
		return &data[i], nil
	case []Pair:
		return &data[i].Value, nil
	}
	return nil, errorf(ErrType, op, "%v element has no nested slots", s.kind)
}

// Index indexes the nested Value in place, so chained writes reach every level.
func (r Ref) Index(i int) (Ref, error) {
	p, err := r.slot("index")
	if err != nil {
		return Ref{}, err
	}
	return p.Index(i)
}

// Entry keys into the nested Value in place.
func (r Ref) Entry(key Value) (Ref, error) {
	p, err := r.slot("entry")
	if err != nil {
		return Ref{}, err
	}
	return p.Entry(key)
}
