// SPDX-License-Identifier: MIT

// Package tableio moves dataset tables to and from CSV and XLSX files.
//
// The first row is the header. A column is numeric when every data cell
// parses as a float; otherwise, and always for the Gal label column, it is
// text. ReadTable dispatches on the file extension. LoadPartition reads one
// <Group>.csv (or .xlsx) per group from a directory.
package tableio
