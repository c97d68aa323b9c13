package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

const containerNotFound = "ContainerNotFound"

// blobClient is the subset of *azblob.Client used for publishing.
type blobClient interface {
	UploadFile(ctx context.Context, containerName, blobName string, file *os.File, o *azblob.UploadFileOptions) (azblob.UploadFileResponse, error)
	CreateContainer(ctx context.Context, containerName string, o *azblob.CreateContainerOptions) (azblob.CreateContainerResponse, error)
	URL() string
}

// AzureBlob uploads reports to a Blob Storage container, creating the
// container on first use.
type AzureBlob struct {
	Container string

	client blobClient
	now    func() time.Time
}

// NewAzureBlob authenticates with the default Azure credential chain
// (environment, managed identity, Azure CLI) against accountURL.
func NewAzureBlob(accountURL, container string) (*AzureBlob, error) {
	if accountURL == "" {
		return nil, errors.New("azure publisher: account URL is required")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure publisher: credential: %w", err)
	}
	return newAzureBlobWithCredential(accountURL, container, cred)
}

func newAzureBlobWithCredential(accountURL, container string, cred azcore.TokenCredential) (*AzureBlob, error) {
	client, err := azblob.NewClient(accountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("azure publisher: client: %w", err)
	}
	return &AzureBlob{Container: container, client: client, now: time.Now}, nil
}

// Publish uploads reportPath and returns the blob URL.
func (a *AzureBlob) Publish(ctx context.Context, reportPath string) (string, error) {
	name := objectName(reportPath, a.now())

	err := a.upload(ctx, reportPath, name)
	if isContainerNotFound(err) {
		if _, cerr := a.client.CreateContainer(ctx, a.Container, nil); cerr != nil {
			return "", fmt.Errorf("creating container %s: %w", a.Container, cerr)
		}
		err = a.upload(ctx, reportPath, name)
	}
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}

	return strings.TrimSuffix(a.client.URL(), "/") + "/" + a.Container + "/" + name, nil
}

func (a *AzureBlob) upload(ctx context.Context, reportPath, name string) error {
	f, err := os.Open(reportPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = a.client.UploadFile(ctx, a.Container, name, f, nil)
	return err
}

func isContainerNotFound(err error) bool {
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return false
	}
	return respErr.ErrorCode == containerNotFound || respErr.StatusCode == http.StatusNotFound
}
