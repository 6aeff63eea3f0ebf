package exif

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	exifknife "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedalor/pkg/domain"
)

func writeTestJPEG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frame.jpg")
	img := imaging.New(32, 24, color.NRGBA{R: 120, G: 30, B: 200, A: 255})
	require.NoError(t, imaging.Save(img, path))
	return path
}

func readTags(t *testing.T, path string) map[string]exifknife.ExifTag {
	t.Helper()
	rawExif, err := exifknife.SearchFileAndExtractExif(path)
	require.NoError(t, err)
	entries, _, err := exifknife.GetFlatExifData(rawExif, nil)
	require.NoError(t, err)

	tags := map[string]exifknife.ExifTag{}
	for _, e := range entries {
		tags[e.TagName] = e
	}
	return tags
}

func TestEmbedder_Embed(t *testing.T) {
	path := writeTestJPEG(t)
	direction := 247.5

	meta := Meta{
		FeedID:     "a2b9e7d0-7c1f-4e43-9f6d-2f8f0a9f1b2c",
		Title:      "Harbour south pier",
		CapturedAt: time.Date(2025, 6, 12, 14, 30, 45, 0, time.Local),
		GPS:        &domain.GPSInfo{Latitude: 51.5007, Longitude: -0.1246, Direction: &direction},
	}
	require.NoError(t, NewEmbedder().Embed(path, meta))

	tags := readTags(t, path)

	assert.Equal(t, "Feedalor Capture", tags["Artist"].Formatted)
	assert.Equal(t, meta.FeedID, tags["ImageDescription"].Formatted)
	assert.Equal(t, "2025:06:12 14:30:45", tags["DateTimeOriginal"].Formatted)
	assert.Contains(t, tags, "UserComment")

	assert.Equal(t, "N", tags["GPSLatitudeRef"].Formatted)
	assert.Equal(t, "W", tags["GPSLongitudeRef"].Formatted)
	assert.Equal(t, "T", tags["GPSImgDirectionRef"].Formatted)

	lat, ok := tags["GPSLatitude"].Value.([]exifcommon.Rational)
	require.True(t, ok)
	got, err := FromDMS(lat)
	require.NoError(t, err)
	assert.InDelta(t, 51.5007, got, 1e-7)

	lon, ok := tags["GPSLongitude"].Value.([]exifcommon.Rational)
	require.True(t, ok)
	got, err = FromDMS(lon)
	require.NoError(t, err)
	assert.InDelta(t, 0.1246, got, 1e-7) // magnitude only, ref carries the sign

	dir, ok := tags["GPSImgDirection"].Value.([]exifcommon.Rational)
	require.True(t, ok)
	require.Len(t, dir, 1)
	assert.Equal(t, uint32(24750), dir[0].Numerator)
	assert.Equal(t, uint32(100), dir[0].Denominator)

	// the rewritten file is still a decodable JPEG
	_, err = imaging.Open(path)
	require.NoError(t, err)
}

func TestEmbedder_EmbedNoGPS(t *testing.T) {
	path := writeTestJPEG(t)

	meta := Meta{
		FeedID:     "feed-1",
		Title:      "no location",
		CapturedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local),
	}
	require.NoError(t, NewEmbedder().Embed(path, meta))

	tags := readTags(t, path)
	assert.Contains(t, tags, "Artist")
	assert.NotContains(t, tags, "GPSLatitude")
	assert.NotContains(t, tags, "GPSImgDirection")
}

func TestEmbedder_EmbedIdempotentRewrite(t *testing.T) {
	path := writeTestJPEG(t)
	meta := Meta{FeedID: "feed-2", Title: "twice", CapturedAt: time.Now()}

	require.NoError(t, NewEmbedder().Embed(path, meta))
	meta.Title = "updated title"
	require.NoError(t, NewEmbedder().Embed(path, meta))

	tags := readTags(t, path)
	assert.Equal(t, "feed-2", tags["ImageDescription"].Formatted)
}

func TestEmbedder_EmbedBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-jpeg.jpg")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o600))

	err := NewEmbedder().Embed(path, Meta{FeedID: "x", CapturedAt: time.Now()})
	require.Error(t, err)
}

func TestDMS_RoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.0001, 1.99999999, 45.123456, 51.5007, 90, 179.999999, 180} {
		got, err := FromDMS(ToDMS(v))
		require.NoError(t, err)
		// within 1/10000 of an arc second
		assert.InDelta(t, v, got, 1.0/10000/3600+1e-9, "value %v", v)
	}

	// negative input yields the magnitude
	got, err := FromDMS(ToDMS(-33.8688))
	require.NoError(t, err)
	assert.InDelta(t, 33.8688, got, 1e-7)
}

func TestDMS_CarryOnRounding(t *testing.T) {
	// 10.99999999999 degrees rounds its seconds up to a full minute
	dms := ToDMS(10.9999999999)
	assert.Equal(t, uint32(11), dms[0].Numerator)
	assert.Equal(t, uint32(0), dms[1].Numerator)
	assert.Equal(t, uint32(0), dms[2].Numerator)
}

func TestFromDMS_Errors(t *testing.T) {
	_, err := FromDMS([]exifcommon.Rational{{Numerator: 1, Denominator: 1}})
	require.Error(t, err)

	_, err = FromDMS([]exifcommon.Rational{
		{Numerator: 1, Denominator: 1},
		{Numerator: 2, Denominator: 0},
		{Numerator: 3, Denominator: 1},
	})
	require.Error(t, err)
}
