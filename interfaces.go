package bcs

// Serializable is implemented by values that can describe themselves to a
// Serializer, one primitive or container at a time.
type Serializable interface {
	SerializeBCS(s *Serializer) error
}

// Deserializable is implemented by pointers to values that can build
// themselves from a Deserializer. Fields are read in the same order
// SerializeBCS writes them.
type Deserializable interface {
	DeserializeBCS(d *Deserializer) error
}

// Value is implemented by types that round-trip in both directions.
type Value interface {
	Serializable
	Deserializable
}
