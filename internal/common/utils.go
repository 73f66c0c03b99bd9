package common

import "strings"

// ObjectPath joins a bucket folder and an object name with a single slash.
func ObjectPath(folder, name string) string {
	folder = strings.TrimSuffix(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// FolderPrefix returns the listing prefix for a bucket folder.
func FolderPrefix(folder string) string {
	return ObjectPath(folder, "")
}

// BaseName strips the folder prefix from a full object name.
// It returns "" for the folder marker object itself.
func BaseName(folder, name string) string {
	return strings.TrimPrefix(name, FolderPrefix(folder))
}
