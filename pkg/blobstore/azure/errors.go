package azure

import (
	"errors"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"blobaudit.dev/pkg/blobstore"
)

// classify wraps an SDK error into a blobstore.Error of the matching kind.
func classify(op, path string, err error) error {
	if err == nil {
		return nil
	}

	return blobstore.NewError(kindOf(err), op, path, err)
}

func kindOf(err error) blobstore.ErrorKind {
	if bloberror.HasCode(err, bloberror.ContainerNotFound, bloberror.BlobNotFound, bloberror.ResourceNotFound) {
		return blobstore.KindNotFound
	}

	if bloberror.HasCode(err, bloberror.AuthorizationFailure, bloberror.AuthorizationPermissionMismatch,
		bloberror.InsufficientAccountPermissions, bloberror.AuthenticationFailed) {
		return blobstore.KindAccessDenied
	}

	var authErr *azidentity.AuthenticationFailedError
	if errors.As(err, &authErr) {
		return blobstore.KindAccessDenied
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case http.StatusNotFound:
			return blobstore.KindNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return blobstore.KindAccessDenied
		}
	}

	return blobstore.KindTransient
}
