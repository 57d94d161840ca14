package core

import (
	"errors"
	"sort"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MemoryMUS is the binary serializer for Memory values persisted by the
// storage layer. Field order is fixed; changing it breaks stored data.
var MemoryMUS = memorySer{}

var (
	entityRecordMUS     = entityRecordSer{}
	commitmentRecordMUS = commitmentRecordSer{}
)

var errNegativeLength = errors.New("negative length")

type entityRecordSer struct{}

func (entityRecordSer) Marshal(e EntityRecord, bs []byte) (n int) {
	n = ord.String.Marshal(e.Name, bs)
	n += raw.Float64.Marshal(e.Confidence, bs[n:])
	n += ord.String.Marshal(e.Normalized, bs[n:])
	return
}

func (entityRecordSer) Unmarshal(bs []byte) (e EntityRecord, n int, err error) {
	var n1 int
	e.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	e.Confidence, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.Normalized, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (entityRecordSer) Size(e EntityRecord) (size int) {
	size = ord.String.Size(e.Name)
	size += raw.Float64.Size(e.Confidence)
	size += ord.String.Size(e.Normalized)
	return
}

type commitmentRecordSer struct{}

func (commitmentRecordSer) Marshal(c CommitmentRecord, bs []byte) (n int) {
	n = ord.String.Marshal(c.FromParty, bs)
	n += ord.String.Marshal(c.ToParty, bs[n:])
	n += ord.String.Marshal(c.Description, bs[n:])
	n += ord.String.Marshal(c.DueDate, bs[n:])
	n += ord.String.Marshal(c.Status, bs[n:])
	return
}

func (commitmentRecordSer) Unmarshal(bs []byte) (c CommitmentRecord, n int, err error) {
	var n1 int
	c.FromParty, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	c.ToParty, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.DueDate, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Status, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (commitmentRecordSer) Size(c CommitmentRecord) (size int) {
	size = ord.String.Size(c.FromParty)
	size += ord.String.Size(c.ToParty)
	size += ord.String.Size(c.Description)
	size += ord.String.Size(c.DueDate)
	size += ord.String.Size(c.Status)
	return
}

type memorySer struct{}

func (memorySer) Marshal(m Memory, bs []byte) (n int) {
	n = ord.String.Marshal(m.Id, bs)
	n += ord.String.Marshal(m.Content, bs[n:])
	n += ord.String.Marshal(m.Summary, bs[n:])

	n += varint.Int.Marshal(len(m.Intents), bs[n:])
	for _, intent := range m.Intents {
		n += ord.String.Marshal(intent, bs[n:])
	}

	// Map keys are sorted so identical memories marshal identically.
	n += varint.Int.Marshal(len(m.Entities), bs[n:])
	for _, entityType := range sortedEntityTypes(m.Entities) {
		n += ord.String.Marshal(entityType, bs[n:])
		records := m.Entities[entityType]
		n += varint.Int.Marshal(len(records), bs[n:])
		for _, e := range records {
			n += entityRecordMUS.Marshal(e, bs[n:])
		}
	}

	n += varint.Int.Marshal(len(m.Commitments), bs[n:])
	for _, c := range m.Commitments {
		n += commitmentRecordMUS.Marshal(c, bs[n:])
	}

	n += varint.Int.Marshal(len(m.Embedding), bs[n:])
	for _, v := range m.Embedding {
		n += raw.Float32.Marshal(v, bs[n:])
	}

	n += ord.String.Marshal(string(m.SourceType), bs[n:])
	n += ord.String.Marshal(m.SourceFile, bs[n:])
	n += ord.String.Marshal(m.Fingerprint, bs[n:])
	n += varint.Int64.Marshal(timeToMicro(m.CreatedAt), bs[n:])
	n += varint.Int64.Marshal(timeToMicro(m.UpdatedAt), bs[n:])
	return
}

func (memorySer) Unmarshal(bs []byte) (m Memory, n int, err error) {
	var n1 int

	m.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	m.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.Summary, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var length int
	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length < 0 {
		err = errNegativeLength
		return
	}
	if length > 0 {
		m.Intents = make([]string, length)
		for i := 0; i < length; i++ {
			m.Intents[i], n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}

	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length < 0 {
		err = errNegativeLength
		return
	}
	if length > 0 {
		m.Entities = make(map[string][]EntityRecord, length)
		for i := 0; i < length; i++ {
			var entityType string
			entityType, n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
			var count int
			count, n1, err = varint.Int.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
			if count < 0 {
				err = errNegativeLength
				return
			}
			records := make([]EntityRecord, count)
			for j := 0; j < count; j++ {
				records[j], n1, err = entityRecordMUS.Unmarshal(bs[n:])
				n += n1
				if err != nil {
					return
				}
			}
			m.Entities[entityType] = records
		}
	}

	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length < 0 {
		err = errNegativeLength
		return
	}
	if length > 0 {
		m.Commitments = make([]CommitmentRecord, length)
		for i := 0; i < length; i++ {
			m.Commitments[i], n1, err = commitmentRecordMUS.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}

	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length < 0 {
		err = errNegativeLength
		return
	}
	if length > 0 {
		m.Embedding = make([]float32, length)
		for i := 0; i < length; i++ {
			m.Embedding[i], n1, err = raw.Float32.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}

	var sourceType string
	sourceType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.SourceType = SourceType(sourceType)

	m.SourceFile, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.Fingerprint, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.CreatedAt = microToTime(micros)

	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.UpdatedAt = microToTime(micros)
	return
}

func (memorySer) Size(m Memory) (size int) {
	size = ord.String.Size(m.Id)
	size += ord.String.Size(m.Content)
	size += ord.String.Size(m.Summary)

	size += varint.Int.Size(len(m.Intents))
	for _, intent := range m.Intents {
		size += ord.String.Size(intent)
	}

	size += varint.Int.Size(len(m.Entities))
	for entityType, records := range m.Entities {
		size += ord.String.Size(entityType)
		size += varint.Int.Size(len(records))
		for _, e := range records {
			size += entityRecordMUS.Size(e)
		}
	}

	size += varint.Int.Size(len(m.Commitments))
	for _, c := range m.Commitments {
		size += commitmentRecordMUS.Size(c)
	}

	size += varint.Int.Size(len(m.Embedding))
	for _, v := range m.Embedding {
		size += raw.Float32.Size(v)
	}

	size += ord.String.Size(string(m.SourceType))
	size += ord.String.Size(m.SourceFile)
	size += ord.String.Size(m.Fingerprint)
	size += varint.Int64.Size(timeToMicro(m.CreatedAt))
	size += varint.Int64.Size(timeToMicro(m.UpdatedAt))
	return
}

func sortedEntityTypes(entities map[string][]EntityRecord) []string {
	types := make([]string, 0, len(entities))
	for t := range entities {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// timeToMicro encodes a timestamp as Unix microseconds, with the zero time
// mapped to 0 so "never updated" survives the round trip.
func timeToMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microToTime(micros int64) time.Time {
	if micros == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros).UTC()
}
