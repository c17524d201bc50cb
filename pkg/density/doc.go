// Package density holds the scalar density fields that drive stippling.
//
// A [Field] is a dense, row-major grid of values in [0, 1] describing how
// strongly stipples should concentrate at each pixel. Fields are immutable
// once built: the relaxation engine reads them concurrently from several
// goroutines without locking.
//
// Fields are usually derived from images. [Load] decodes any format known to
// the standard library or golang.org/x/image (PNG, JPEG, GIF, BMP, TIFF,
// WebP), [Scale] resamples it to a working size, and [FromImage] converts
// every pixel with a [Model]:
//
//	img, err := density.Load("portrait.jpg")
//	if err != nil {
//	    return err
//	}
//	w, h := density.WorkingSize(img.Bounds().Dx(), img.Bounds().Dy(), 400, 900)
//	field := density.FromImage(density.Scale(img, w, h), density.NegRed)
//
// The default model, [NegRed], inverts the red channel so that dark pixels
// attract more stipples.
//
// A Field also implements image.Image (as 16-bit gray), which makes it easy
// to export for inspection.
package density
