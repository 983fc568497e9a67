// Package storage keeps downloaded book jackets on disk.
//
// Jackets are stored flat in one directory as <book id><ext>. Existing
// files are indexed when the Manager is created so repeated runs skip
// covers already fetched. Writes go to a temporary file that is renamed
// into place, so an interrupted download never leaves a truncated image.
//
// Usage:
//
//	manager, err := storage.NewManager("jackets")
//	if err != nil {
//	    return err
//	}
//	if !manager.IsDownloaded(book.ID) {
//	    jacket, err := client.Jacket(ctx, book.ID)
//	    if err != nil {
//	        return err
//	    }
//	    path, err := manager.SaveJacket(bytes.NewReader(jacket.Data), book.ID, jacket.Ext())
//	    ...
//	}
package storage
