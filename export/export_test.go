package export

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2025, time.January, 15, 9, 30, 0, 0, time.UTC)

func TestFileName(t *testing.T) {
	assert.Equal(t, "contrat-Diop-1736933400000.pdf", FileName("contrat", "Diop", "locataire", created))
	assert.Equal(t, "facture-locataire-1736933400000.pdf", FileName("facture", "", "locataire", created))
	assert.Equal(t, "mandat-Ba-Fall-1736933400000.pdf", FileName("mandat", "Ba Fall", "bailleur", created))
}

func TestFileSystem_Save(t *testing.T) {
	base := t.TempDir()
	fs, err := NewFileSystem(base, "https://docs.example.sn/files/", nil)
	require.NoError(t, err)

	stored, err := fs.Save(context.Background(), &Artifact{
		AgencyID: "agence-1",
		FileName: "facture-Diop-1.pdf",
		Data:     []byte("%PDF-1.3 test"),
		Created:  created,
	})
	require.NoError(t, err)
	assert.Equal(t, "agence-1/2025/01/facture-Diop-1.pdf", stored.Path)
	assert.Equal(t, "https://docs.example.sn/files/agence-1/2025/01/facture-Diop-1.pdf", stored.URL)

	data, err := os.ReadFile(filepath.Join(base, "agence-1", "2025", "01", "facture-Diop-1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 test", string(data))

	full, err := fs.Open(stored.Path)
	require.NoError(t, err)
	assert.FileExists(t, full)

	_, err = fs.Open("../../etc/passwd")
	assert.Error(t, err)
}

func TestFileSystem_Rejects(t *testing.T) {
	fs, err := NewFileSystem(t.TempDir(), "", nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = fs.Save(ctx, &Artifact{FileName: "a.pdf", Created: created})
	assert.Error(t, err, "empty data")

	_, err = fs.Save(ctx, &Artifact{FileName: "../a.pdf", Data: []byte("x"), Created: created})
	assert.Error(t, err, "file name with separator")

	stored, err := fs.Save(ctx, &Artifact{FileName: "a.pdf", Data: []byte("x"), Created: created})
	require.NoError(t, err)
	assert.Equal(t, "default/2025/01/a.pdf", stored.Path)
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3_Save(t *testing.T) {
	client := &fakeS3{}
	exp, err := NewS3(client, "immodoc", "/documents/")
	require.NoError(t, err)

	stored, err := exp.Save(context.Background(), &Artifact{
		AgencyID: "agence-1",
		FileName: "mandat-Ba-1.pdf",
		Data:     []byte("%PDF"),
		Created:  created,
	})
	require.NoError(t, err)
	assert.Equal(t, "documents/agence-1/2025/01/mandat-Ba-1.pdf", aws.ToString(client.in.Key))
	assert.Equal(t, "application/pdf", aws.ToString(client.in.ContentType))
	assert.Equal(t, "%PDF", string(client.body))
	assert.Equal(t, "s3://immodoc/documents/agence-1/2025/01/mandat-Ba-1.pdf", stored.URL)
}

func TestS3_Errors(t *testing.T) {
	_, err := NewS3(nil, "b", "")
	assert.Error(t, err)
	_, err = NewS3(&fakeS3{}, "", "")
	assert.Error(t, err)

	boom := errors.New("access denied")
	exp, err := NewS3(&fakeS3{err: boom}, "b", "")
	require.NoError(t, err)
	_, err = exp.Save(context.Background(), &Artifact{FileName: "a.pdf", Data: []byte("x"), Created: created})
	assert.ErrorIs(t, err, boom)
}
