// Package password provides the bcrypt credential hasher used for user
// passwords and secret answers.
package password
