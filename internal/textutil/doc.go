// Package textutil provides the string transformations used to turn media
// titles into file names.
//
// Two strategies exist:
//   - SanitizeTitle keeps the title as-is but swaps filesystem-unsafe
//     characters for full-width variants
//   - Slugify produces a lowercase ASCII slug separated by hyphens
package textutil
