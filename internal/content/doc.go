// Package content turns uploaded files into plain text and normalizes that
// text before it is handed to the prompt builder.
//
// Extraction supports UTF-8 text files and PDFs (via github.com/ledongthuc/pdf,
// page by page). Cleaning collapses whitespace while keeping paragraph breaks.
package content
