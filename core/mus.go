package core

import (
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the badger value format. Fields are
// encoded in struct order; changing the order or the encoding of a field is
// a breaking change to stored data.

// IDMUS serializes IDs.
var IDMUS = idMUS{}

// AssetMUS serializes Assets.
var AssetMUS = assetMUS{}

// DownloadMUS serializes Downloads.
var DownloadMUS = downloadMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

type assetMUS struct{}

func (assetMUS) Marshal(a Asset, bs []byte) (n int) {
	n = IDMUS.Marshal(a.Id, bs)
	n += ord.String.Marshal(a.Filename, bs[n:])
	n += ord.String.Marshal(a.OriginalFilename, bs[n:])
	n += varint.Int.Marshal(int(a.FileType), bs[n:])
	n += ord.String.Marshal(a.MimeType, bs[n:])
	n += varint.Int64.Marshal(a.FileSize, bs[n:])
	n += ord.String.Marshal(a.StoragePath, bs[n:])
	n += ord.String.Marshal(a.ThumbnailPath, bs[n:])
	n += ord.String.Marshal(a.AISummary, bs[n:])
	n += marshalStrings(a.AITags, bs[n:])
	n += ord.String.Marshal(a.ExtractedText, bs[n:])
	n += marshalStrings(a.UserTags, bs[n:])
	n += varint.Int.Marshal(int(a.Status), bs[n:])
	n += varint.Int64.Marshal(a.DownloadCount, bs[n:])
	n += marshalVector(a.Vector, bs[n:])
	n += marshalTime(a.CreatedAt, bs[n:])
	n += marshalTime(a.UpdatedAt, bs[n:])
	return n
}

func (assetMUS) Unmarshal(bs []byte) (a Asset, n int, err error) {
	var m int
	if a.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if a.Filename, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.OriginalFilename, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	var ft int
	if ft, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	a.FileType = FileType(ft)
	n += m
	if a.MimeType, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.FileSize, m, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.StoragePath, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.ThumbnailPath, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.AISummary, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.AITags, m, err = unmarshalStrings(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.ExtractedText, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.UserTags, m, err = unmarshalStrings(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	var st int
	if st, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	a.Status = ProcessingStatus(st)
	n += m
	if a.DownloadCount, m, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.Vector, m, err = unmarshalVector(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.CreatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.UpdatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	return a, n, nil
}

func (assetMUS) Size(a Asset) (size int) {
	size = IDMUS.Size(a.Id)
	size += ord.String.Size(a.Filename)
	size += ord.String.Size(a.OriginalFilename)
	size += varint.Int.Size(int(a.FileType))
	size += ord.String.Size(a.MimeType)
	size += varint.Int64.Size(a.FileSize)
	size += ord.String.Size(a.StoragePath)
	size += ord.String.Size(a.ThumbnailPath)
	size += ord.String.Size(a.AISummary)
	size += sizeStrings(a.AITags)
	size += ord.String.Size(a.ExtractedText)
	size += sizeStrings(a.UserTags)
	size += varint.Int.Size(int(a.Status))
	size += varint.Int64.Size(a.DownloadCount)
	size += sizeVector(a.Vector)
	size += sizeTime(a.CreatedAt)
	size += sizeTime(a.UpdatedAt)
	return size
}

type downloadMUS struct{}

func (downloadMUS) Marshal(d Download, bs []byte) (n int) {
	n = IDMUS.Marshal(d.Id, bs)
	n += IDMUS.Marshal(d.AssetId, bs[n:])
	n += ord.String.Marshal(d.DownloadedBy, bs[n:])
	n += marshalTime(d.DownloadedAt, bs[n:])
	return n
}

func (downloadMUS) Unmarshal(bs []byte) (d Download, n int, err error) {
	var m int
	if d.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if d.AssetId, m, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.DownloadedBy, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.DownloadedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	return d, n, nil
}

func (downloadMUS) Size(d Download) int {
	return IDMUS.Size(d.Id) + IDMUS.Size(d.AssetId) +
		ord.String.Size(d.DownloadedBy) + sizeTime(d.DownloadedAt)
}

// Field helpers. Slices carry a varint length prefix; timestamps are stored
// as Unix microseconds; float32s are stored as their IEEE 754 bits.

func marshalStrings(ss []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(ss), bs)
	for _, s := range ss {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

func unmarshalStrings(bs []byte) (ss []string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length == 0 {
		return nil, n, nil
	}
	ss = make([]string, length)
	var m int
	for i := 0; i < length; i++ {
		if ss[i], m, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return nil, n + m, err
		}
		n += m
	}
	return ss, n, nil
}

func sizeStrings(ss []string) (size int) {
	size = varint.Int.Size(len(ss))
	for _, s := range ss {
		size += ord.String.Size(s)
	}
	return size
}

func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Uint32.Marshal(math.Float32bits(f), bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]float32, length)
	var m int
	var bits uint32
	for i := 0; i < length; i++ {
		if bits, m, err = varint.Uint32.Unmarshal(bs[n:]); err != nil {
			return nil, n + m, err
		}
		v[i] = math.Float32frombits(bits)
		n += m
	}
	return v, n, nil
}

func sizeVector(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += varint.Uint32.Size(math.Float32bits(f))
	}
	return size
}

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}
