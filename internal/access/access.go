// Package access decides who may read or modify a file record. A nil
// requester is an anonymous caller.
package access

import "bitwise74/files-manager/internal/model"

func CanWrite(requester *model.User, f *model.File) bool {
	return requester != nil && requester.ID == f.UserID
}

// CanRead allows anyone on public records and only the owner otherwise
func CanRead(requester *model.User, f *model.File) bool {
	return f.IsPublic || CanWrite(requester, f)
}
