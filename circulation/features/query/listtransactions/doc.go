// Package listtransactions lists loans with their book titles and current fines.
//
// Members only ever see their own loans. Librarians see the loans of one user, or of
// everyone when no user is given. For an active loan the current fine is the projection
// of what returning it today would cost; nothing is persisted.
package listtransactions
