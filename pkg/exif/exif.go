// Package exif embeds capture metadata into saved JPEG frames.
package exif

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"time"
	"unicode/utf16"

	exifknife "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	exifundefined "github.com/dsoprea/go-exif/v3/undefined"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"

	"github.com/umputun/feedalor/pkg/domain"
)

// artistTag identifies frames produced by this service
const artistTag = "Feedalor Capture"

// Meta is the metadata written into a captured frame
type Meta struct {
	FeedID     string
	Title      string
	CapturedAt time.Time
	GPS        *domain.GPSInfo
}

// Embedder rewrites JPEG files in place with capture metadata. Safe for
// concurrent use, it keeps no state between calls.
type Embedder struct{}

// NewEmbedder creates an Embedder
func NewEmbedder() *Embedder { return &Embedder{} }

// Embed parses the JPEG at path, merges the metadata into its EXIF tree and
// rewrites the file. The feed id goes to ImageDescription, the title to a
// unicode UserComment, the capture time to DateTimeOriginal and the optional
// GPS info to the GPS IFD.
func (e *Embedder) Embed(path string, meta Meta) error {
	jmp := jpegstructure.NewJpegMediaParser()
	intfc, err := jmp.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse jpeg %s: %w", path, err)
	}
	sl := intfc.(*jpegstructure.SegmentList)

	rootIb, err := sl.ConstructExifBuilder()
	if err != nil { // freshly encoded frames carry no exif yet
		im := exifcommon.NewIfdMapping()
		if err := exifcommon.LoadStandardIfds(im); err != nil {
			return fmt.Errorf("load standard ifds: %w", err)
		}
		rootIb = exifknife.NewIfdBuilder(im, exifknife.NewTagIndex(),
			exifcommon.IfdStandardIfdIdentity, exifcommon.EncodeDefaultByteOrder)
	}

	if err := e.setRootTags(rootIb, meta); err != nil {
		return err
	}
	if err := e.setCaptureTime(rootIb, meta); err != nil {
		return err
	}
	if meta.GPS != nil {
		if err := e.setGPS(rootIb, *meta.GPS); err != nil {
			return err
		}
	}

	if err := sl.SetExif(rootIb); err != nil {
		return fmt.Errorf("set exif: %w", err)
	}

	buf := &bytes.Buffer{}
	if err := sl.Write(buf); err != nil {
		return fmt.Errorf("serialize jpeg: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("rewrite %s: %w", path, err)
	}
	return nil
}

func (e *Embedder) setRootTags(rootIb *exifknife.IfdBuilder, meta Meta) error {
	ifdIb, err := exifknife.GetOrCreateIbFromRootIb(rootIb, "IFD0")
	if err != nil {
		return fmt.Errorf("get root ifd: %w", err)
	}
	if err := ifdIb.SetStandardWithName("Artist", artistTag); err != nil {
		return fmt.Errorf("set artist: %w", err)
	}
	if err := ifdIb.SetStandardWithName("ImageDescription", meta.FeedID); err != nil {
		return fmt.Errorf("set image description: %w", err)
	}
	return nil
}

func (e *Embedder) setCaptureTime(rootIb *exifknife.IfdBuilder, meta Meta) error {
	exifIb, err := exifknife.GetOrCreateIbFromRootIb(rootIb, "IFD/Exif")
	if err != nil {
		return fmt.Errorf("get exif ifd: %w", err)
	}

	ts := meta.CapturedAt.Format("2006:01:02 15:04:05")
	if err := exifIb.SetStandardWithName("DateTimeOriginal", ts); err != nil {
		return fmt.Errorf("set capture time: %w", err)
	}

	comment := exifundefined.Tag9286UserComment{
		EncodingType:  exifundefined.TagUndefinedType_9286_UserComment_Encoding_UNICODE,
		EncodingBytes: encodeUCS2(meta.Title),
	}
	if err := exifIb.SetStandardWithName("UserComment", comment); err != nil {
		return fmt.Errorf("set user comment: %w", err)
	}
	return nil
}

func (e *Embedder) setGPS(rootIb *exifknife.IfdBuilder, gps domain.GPSInfo) error {
	gpsIb, err := exifknife.GetOrCreateIbFromRootIb(rootIb, "IFD/GPSInfo")
	if err != nil {
		return fmt.Errorf("get gps ifd: %w", err)
	}

	latRef, lonRef := "N", "E"
	if gps.Latitude < 0 {
		latRef = "S"
	}
	if gps.Longitude < 0 {
		lonRef = "W"
	}

	tags := []struct {
		name  string
		value any
	}{
		{"GPSLatitudeRef", latRef},
		{"GPSLatitude", ToDMS(gps.Latitude)},
		{"GPSLongitudeRef", lonRef},
		{"GPSLongitude", ToDMS(gps.Longitude)},
	}
	if gps.Direction != nil {
		tags = append(tags,
			struct {
				name  string
				value any
			}{"GPSImgDirectionRef", "T"},
			struct {
				name  string
				value any
			}{"GPSImgDirection", []exifcommon.Rational{
				{Numerator: uint32(math.Round(*gps.Direction * 100)), Denominator: 100},
			}},
		)
	}

	for _, t := range tags {
		if err := gpsIb.SetStandardWithName(t.name, t.value); err != nil {
			return fmt.Errorf("set %s: %w", t.name, err)
		}
	}
	return nil
}

// encodeUCS2 encodes a string as big-endian two-byte units for the unicode
// UserComment payload
func encodeUCS2(s string) []byte {
	codes := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(codes)*2)
	for _, c := range codes {
		out = append(out, byte(c>>8), byte(c))
	}
	return out
}

// ToDMS converts a decimal coordinate to degree, minute and second rationals.
// The sign is dropped, hemisphere refs carry it. Seconds keep a 1/10000
// denominator so FromDMS recovers the value within 1/10000 of a second.
func ToDMS(v float64) []exifcommon.Rational {
	v = math.Abs(v)
	deg := math.Floor(v)
	rem := (v - deg) * 60
	minutes := math.Floor(rem)
	secNum := math.Round((rem - minutes) * 60 * 10000)

	// rounding can push seconds to a full minute
	if secNum >= 60*10000 {
		secNum = 0
		minutes++
	}
	if minutes >= 60 {
		minutes = 0
		deg++
	}

	return []exifcommon.Rational{
		{Numerator: uint32(deg), Denominator: 1},
		{Numerator: uint32(minutes), Denominator: 1},
		{Numerator: uint32(secNum), Denominator: 10000},
	}
}

// FromDMS converts degree, minute, second rationals back to a decimal
// coordinate. The result is always non-negative.
func FromDMS(dms []exifcommon.Rational) (float64, error) {
	if len(dms) != 3 {
		return 0, fmt.Errorf("expected 3 rationals, got %d", len(dms))
	}
	for i, r := range dms {
		if r.Denominator == 0 {
			return 0, fmt.Errorf("zero denominator in component %d", i)
		}
	}
	deg := float64(dms[0].Numerator) / float64(dms[0].Denominator)
	minutes := float64(dms[1].Numerator) / float64(dms[1].Denominator)
	sec := float64(dms[2].Numerator) / float64(dms[2].Denominator)
	return deg + minutes/60 + sec/3600, nil
}
