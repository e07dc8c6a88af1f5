package cloudinarymedia

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/amirasaad/cinema/pkg/provider/media"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	data, _ := io.ReadAll(file.(io.Reader))
	args := m.Called(string(data), params)
	res, _ := args.Get(0).(*uploader.UploadResult)
	return res, args.Error(1)
}

func (m *mockAPI) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	args := m.Called(params)
	res, _ := args.Get(0).(*uploader.DestroyResult)
	return res, args.Error(1)
}

func TestUpload_UsesFolderAndNameWithoutExtension(t *testing.T) {
	m := &mockAPI{}
	m.On("Upload", "png-bytes", uploader.UploadParams{
		PublicID:     "image-1-proof",
		Folder:       "cinema-online/transfer",
		ResourceType: "image",
	}).Return(&uploader.UploadResult{
		PublicID:  "cinema-online/transfer/image-1-proof",
		SecureURL: "https://res.cloudinary.com/demo/image/upload/cinema-online/transfer/image-1-proof.png",
	}, nil)

	p := newWithAPI(m, slog.Default())
	asset, err := p.Upload(context.Background(), &media.UploadParams{
		Folder: "cinema-online/transfer",
		Name:   "image-1-proof.png",
		Data:   []byte("png-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "cinema-online/transfer/image-1-proof", asset.ID)
	assert.Contains(t, asset.URL, "https://res.cloudinary.com/")
	m.AssertExpectations(t)
}

func TestUpload_ReportsAPIError(t *testing.T) {
	m := &mockAPI{}
	m.On("Upload", mock.Anything, mock.Anything).
		Return(&uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}, nil)

	_, err := newWithAPI(m, slog.Default()).Upload(context.Background(), &media.UploadParams{Name: "x.png"})
	assert.EqualError(t, err, "Invalid image file")
}

func TestDestroy(t *testing.T) {
	testCases := []struct {
		desc    string
		result  *uploader.DestroyResult
		err     error
		wantErr bool
	}{
		{"ok", &uploader.DestroyResult{Result: "ok"}, nil, false},
		{"already gone", &uploader.DestroyResult{Result: "not found"}, nil, false},
		{"transport error", nil, errors.New("timeout"), true},
		{"unexpected result", &uploader.DestroyResult{Result: "error"}, nil, true},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			m := &mockAPI{}
			m.On("Destroy", uploader.DestroyParams{PublicID: "asset"}).Return(tc.result, tc.err)
			err := newWithAPI(m, slog.Default()).Destroy(context.Background(), "asset")
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(nil, slog.Default())
	assert.Error(t, err)
}
