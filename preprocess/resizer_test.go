package preprocess

import (
	"image"
	"testing"

	"gocv.io/x/gocv"

	"github.com/swdee/go-trafficcount/geometry"
)

func TestResize(t *testing.T) {

	tests := []struct {
		srcWidth     int
		srcHeight    int
		destWidth    int
		crop         geometry.Rect
		expectedCrop image.Rectangle
	}{
		{1920, 1080, 1280, geometry.Rect{}, image.Rect(0, 0, 1280, 720)},
		{1920, 1080, 1280, geometry.NewRect(0, 100, 650, 800), image.Rect(0, 100, 650, 720)},
		{640, 480, 320, geometry.NewRect(10, 10, 110, 60), image.Rect(10, 10, 110, 60)},
		{800, 800, 0, geometry.Rect{}, image.Rect(0, 0, 800, 800)},
	}

	for _, tc := range tests {
		img := gocv.NewMatWithSize(tc.srcHeight, tc.srcWidth, gocv.MatTypeCV8UC3)

		resizedImg := gocv.NewMat()

		resizer := NewResizer(tc.srcWidth, tc.srcHeight, tc.destWidth, tc.crop)

		resizer.Resize(img, &resizedImg)

		if resizer.Crop() != tc.expectedCrop {
			t.Errorf("src (%d, %d): crop wrong, expected %v, got %v",
				tc.srcWidth, tc.srcHeight, tc.expectedCrop, resizer.Crop())
		}

		if resizedImg.Cols() != tc.expectedCrop.Dx() || resizedImg.Rows() != tc.expectedCrop.Dy() {
			t.Errorf("src (%d, %d): output size wrong, expected %dx%d, got %dx%d",
				tc.srcWidth, tc.srcHeight, tc.expectedCrop.Dx(), tc.expectedCrop.Dy(),
				resizedImg.Cols(), resizedImg.Rows())
		}

		img.Close()
		resizedImg.Close()
		resizer.Close()
	}
}
