package web

import (
	"errors"

	"blobaudit.dev/pkg/blobstore"
	"blobaudit.dev/pkg/blobstore/azure"
	"blobaudit.dev/pkg/session"
)

var errNoToken = errors.New("session has no storage token")

// AzureStores acts for the signed-in user with their delegated storage token.
func AzureStores(accountURL, container string, metrics azure.Metrics) StoreFactory {
	return func(sess *session.Session) (blobstore.Store, error) {
		if sess.Token == nil {
			return nil, errNoToken
		}

		client, err := azure.NewContainerClient(&azure.Config{
			AccountURL: accountURL,
			Container:  container,
			Credential: sess.Token,
		})
		if err != nil {
			return nil, err
		}

		return azure.New(client, metrics), nil
	}
}

// SharedStore serves every session from one store, as the demo does.
func SharedStore(store blobstore.Store) StoreFactory {
	return func(*session.Session) (blobstore.Store, error) {
		return store, nil
	}
}
