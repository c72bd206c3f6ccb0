// Package domain contains the core entities of flashgen: the Flashcard record
// produced by generation, its Difficulty, and the fixed set of Subject labels
// that steer prompt construction. It has no knowledge of HTTP, sessions, or
// the language model behind generation.
package domain
