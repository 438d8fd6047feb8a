package reference

import (
	"context"
	"testing"

	"github.com/novelenchant/enchant/pkg/imagemodel"
	"github.com/novelenchant/enchant/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImageClient struct {
	result imagemodel.GenerationResult
	err    error
}

func (f *fakeImageClient) Submit(ctx context.Context, req imagemodel.GenerationRequest) (imagemodel.GenerationHandle, error) {
	return imagemodel.GenerationHandle{JobID: "job-1"}, f.err
}

func (f *fakeImageClient) Poll(ctx context.Context, handle imagemodel.GenerationHandle) (imagemodel.GenerationResult, error) {
	return f.result, nil
}

type fakeStore struct {
	puts map[string][]byte
}

func (f *fakeStore) Put(ctx context.Context, path string, blob []byte, contentType string) (string, error) {
	if f.puts == nil {
		f.puts = map[string][]byte{}
	}
	f.puts[path] = blob
	return "pointer://" + path, nil
}
func (f *fakeStore) Get(ctx context.Context, pointer string) ([]byte, error) { return nil, nil }
func (f *fakeStore) Delete(ctx context.Context, pointer string) error        { return nil }
func (f *fakeStore) Exists(ctx context.Context, pointer string) (bool, error) { return true, nil }

func TestEnsureReference_SuccessfulGeneration(t *testing.T) {
	client := &fakeImageClient{result: imagemodel.GenerationResult{Status: imagemodel.GenerationStatusSucceeded, ImagePointer: "img-1"}}
	mgr := &Manager{ImageClient: client, NewID: func() string { return "ref-1" }}

	entity := models.Entity{ID: "e1", Name: "Aldric", Kind: models.EntityKindCharacter, Description: "a young warrior"}
	ref, err := mgr.EnsureReference(context.Background(), entity, models.StylePreset{Name: "fantasy"}, 1, "", 5)
	require.NoError(t, err)
	assert.Equal(t, "img-1", ref.ImagePointer)
	assert.True(t, ref.Active)
	assert.Equal(t, models.GenerationMethodAI, ref.GenerationMethod)
}

func TestEnsureReference_FailureSurfaced(t *testing.T) {
	client := &fakeImageClient{result: imagemodel.GenerationResult{Status: imagemodel.GenerationStatusFailed, ErrorDetail: "boom"}}
	mgr := &Manager{ImageClient: client, NewID: func() string { return "ref-1" }}

	_, err := mgr.EnsureReference(context.Background(), models.Entity{ID: "e1"}, models.StylePreset{}, 1, "", 1)
	require.Error(t, err)
}

func TestIngestUpload_RejectsUnsupportedFormat(t *testing.T) {
	mgr := &Manager{Store: &fakeStore{}, NewID: func() string { return "ref-1" }, NewPath: func() string { return "p1" }}
	_, err := mgr.IngestUpload(context.Background(), make([]byte, 2000), "image/gif", "e1", 512, 512, 1, models.StylePreset{}, 1)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestIngestUpload_RejectsUndersizedBlob(t *testing.T) {
	mgr := &Manager{Store: &fakeStore{}, NewID: func() string { return "ref-1" }, NewPath: func() string { return "p1" }}
	_, err := mgr.IngestUpload(context.Background(), make([]byte, 10), "image/png", "e1", 512, 512, 1, models.StylePreset{}, 1)
	require.ErrorIs(t, err, ErrOversizedInput)
}

func TestIngestUpload_RejectsOutOfBoundsDimensions(t *testing.T) {
	mgr := &Manager{Store: &fakeStore{}, NewID: func() string { return "ref-1" }, NewPath: func() string { return "p1" }}
	_, err := mgr.IngestUpload(context.Background(), make([]byte, 2000), "image/png", "e1", 100, 100, 1, models.StylePreset{}, 1)
	require.ErrorIs(t, err, ErrOversizedInput)
}

func TestIngestUpload_Success(t *testing.T) {
	store := &fakeStore{}
	mgr := &Manager{Store: store, NewID: func() string { return "ref-1" }, NewPath: func() string { return "uploads/p1" }}
	ref, err := mgr.IngestUpload(context.Background(), make([]byte, 2000), "image/png", "e1", 512, 512, 1, models.StylePreset{Name: "fantasy"}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.GenerationMethodUploaded, ref.GenerationMethod)
	assert.Equal(t, "pointer://uploads/p1", ref.ImagePointer)
}

func TestSelect_TopThreeByPriorityThenRecency(t *testing.T) {
	refs := []models.EntityReference{
		{ID: "r1", Active: true, StylePreset: "fantasy", Priority: 1, AddedAtChapter: 1},
		{ID: "r2", Active: true, StylePreset: "fantasy", Priority: 5, AddedAtChapter: 2},
		{ID: "r3", Active: true, StylePreset: "fantasy", Priority: 5, AddedAtChapter: 4},
		{ID: "r4", Active: true, StylePreset: "fantasy", Priority: 3, AddedAtChapter: 1},
		{ID: "r5", Active: false, StylePreset: "fantasy", Priority: 10, AddedAtChapter: 5},
		{ID: "r6", Active: true, StylePreset: "noir", Priority: 10, AddedAtChapter: 5},
	}
	selected := Select(refs, "fantasy")
	require.Len(t, selected, 3)
	assert.Equal(t, "r3", selected[0].ID)
	assert.Equal(t, "r2", selected[1].ID)
	assert.Equal(t, "r4", selected[2].ID)
}
