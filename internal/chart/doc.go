// package chart fetches and parses dated Billboard Hot 100 chart pages.
//
// The page markup is treated as an opaque document: two independent selector
// passes collect ordered title and artist text nodes, which are then paired
// positionally. An empty or unrecognized document degrades to an empty chart;
// only transport failures error.
package chart
