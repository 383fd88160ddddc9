// Package publications holds the papers and footnotes domain: the Store that
// talks to the relational database and the Service that validates create
// requests and turns empty lookups into not-found errors.
//
// Lookups always return slices, including lookups by id, since the filter is
// a plain equality match and nothing here assumes uniqueness.
package publications
