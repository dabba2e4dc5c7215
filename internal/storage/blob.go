package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
)

// BlobStore wraps an Azure Blob Storage container used for uploaded images.
type BlobStore struct {
	account   string
	container string
	cred      *azblob.SharedKeyCredential
}

// NewBlobStore builds a store from shared-key credentials. All three values
// must come from configuration; none have defaults.
func NewBlobStore(account, key, container string) (*BlobStore, error) {
	if account == "" || key == "" || container == "" {
		return nil, errors.New("azure blob storage config missing")
	}
	cred, err := azblob.NewSharedKeyCredential(account, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}
	return &BlobStore{account: account, container: container, cred: cred}, nil
}

func (s *BlobStore) serviceURL() string {
	return fmt.Sprintf("https://%s.blob.core.windows.net/", s.account)
}

func (s *BlobStore) blobURL(blobName string) string {
	return s.serviceURL() + s.container + "/" + blobName
}

// Upload writes data under blobName and returns the blob URL.
func (s *BlobStore) Upload(ctx context.Context, blobName string, data []byte) (string, error) {
	client, err := blockblob.NewClientWithSharedKeyCredential(s.blobURL(blobName), s.cred, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create block blob client: %w", err)
	}
	if _, err := client.UploadStream(ctx, bytes.NewReader(data), nil); err != nil {
		return "", fmt.Errorf("failed to upload to Azure Blob: %w", err)
	}
	return s.blobURL(blobName), nil
}

// Delete removes a blob. Missing blobs surface the SDK's not-found error.
func (s *BlobStore) Delete(ctx context.Context, blobName string) error {
	client, err := blockblob.NewClientWithSharedKeyCredential(s.blobURL(blobName), s.cred, nil)
	if err != nil {
		return fmt.Errorf("failed to create block blob client: %w", err)
	}
	if _, err := client.Delete(ctx, nil); err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// SignedReadURL mints a time-boxed read-only SAS URL for a blob.
func (s *BlobStore) SignedReadURL(blobName string, ttl time.Duration) (string, error) {
	perms := sas.BlobPermissions{Read: true}
	vals := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		StartTime:     time.Now().Add(-5 * time.Minute).UTC(),
		ExpiryTime:    time.Now().Add(ttl).UTC(),
		Permissions:   perms.String(),
		ContainerName: s.container,
		BlobName:      blobName,
	}
	qp, err := vals.SignWithSharedKey(s.cred)
	if err != nil {
		return "", fmt.Errorf("failed to sign SAS values: %w", err)
	}
	return s.blobURL(blobName) + "?" + qp.Encode(), nil
}
