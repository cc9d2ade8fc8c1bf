// Package imaging provides the file-facing side of pixelation.
//
// It decodes source images into a shared cache, writes pixelated results back
// to disk, renders tile plans as grid overlays and formats colors for
// reporting. The pixel math itself lives in package pixelate.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Cached images are treated as
// read-only; pixelation always works on a converted copy.
//
// # Formats
//
// Decoding supports PNG, JPEG, GIF, BMP, TIFF and WebP. Encoding supports
// every format except WebP, selected by the output file extension.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - File I/O errors during image loading
//   - Unsupported output extensions or missing output directories
//   - Encoding errors during image output
package imaging
