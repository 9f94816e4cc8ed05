package bcs

// Generic helpers for the common containers. Element callbacks line up
// with method expressions, so (*Serializer).SerializeU64 and
// (*Deserializer).DeserializeU64 can be passed directly.

// maxPrealloc caps how many elements are reserved up front from a decoded
// length. Longer sequences grow as elements actually arrive.
const maxPrealloc = 1024

// SerializeSlice writes items as a sequence.
func SerializeSlice[T any](s *Serializer, items []T, elem func(*Serializer, T) error) error {
	return s.SerializeSeq(len(items), func() error {
		for _, item := range items {
			if err := elem(s, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeserializeSlice reads a sequence.
func DeserializeSlice[T any](d *Deserializer, elem func(*Deserializer) (T, error)) ([]T, error) {
	var out []T
	err := d.DeserializeSeq(func(n int) error {
		out = make([]T, 0, min(n, maxPrealloc))
		for range n {
			v, err := elem(d)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SerializeOptional writes nil as absent and anything else as present.
func SerializeOptional[T any](s *Serializer, v *T, elem func(*Serializer, T) error) error {
	return s.SerializeOption(v != nil, func() error {
		return elem(s, *v)
	})
}

// DeserializeOptional returns nil for an absent value.
func DeserializeOptional[T any](d *Deserializer, elem func(*Deserializer) (T, error)) (*T, error) {
	var v T
	present, err := d.DeserializeOption(func() error {
		var err error
		v, err = elem(d)
		return err
	})
	if err != nil || !present {
		return nil, err
	}
	return &v, nil
}

// SerializeMapOf writes m with entries ordered by encoded key, so Go's map
// iteration order never reaches the output.
func SerializeMapOf[K comparable, V any](s *Serializer, m map[K]V, key func(*Serializer, K) error, value func(*Serializer, V) error) error {
	return s.SerializeMap(func(ms *MapSerializer) error {
		for k, v := range m {
			err := ms.Entry(
				func(ks *Serializer) error { return key(ks, k) },
				func(vs *Serializer) error { return value(vs, v) },
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// DeserializeMapOf reads a map whose keys must appear in strictly
// increasing byte order.
func DeserializeMapOf[K comparable, V any](d *Deserializer, key func(*Deserializer) (K, error), value func(*Deserializer) (V, error)) (map[K]V, error) {
	var out map[K]V
	err := d.DeserializeMap(func(md *MapDeserializer) error {
		out = make(map[K]V, min(md.Len(), maxPrealloc))
		for range md.Len() {
			var (
				k K
				v V
			)
			err := md.Entry(
				func() (err error) { k, err = key(d); return },
				func() (err error) { v, err = value(d); return },
			)
			if err != nil {
				return err
			}
			out[k] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SerializeValues writes a sequence of Serializable values.
func SerializeValues[T Serializable](s *Serializer, items []T) error {
	return SerializeSlice(s, items, func(s *Serializer, v T) error {
		return v.SerializeBCS(s)
	})
}

// DeserializeValues reads a sequence of values whose pointer type is
// Deserializable.
func DeserializeValues[T any, PT interface {
	*T
	Deserializable
}](d *Deserializer) ([]T, error) {
	return DeserializeSlice(d, func(d *Deserializer) (T, error) {
		var v T
		err := PT(&v).DeserializeBCS(d)
		return v, err
	})
}
