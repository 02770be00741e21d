package cube_texture

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/mood/common"
)

// Decoder turns an image file into RGBA8 pixels.
type Decoder interface {
	// Decode reads and decodes one image.
	//
	// Parameters:
	//   - path: the image file path
	//
	// Returns:
	//   - common.TextureStagingData: the decoded pixels, 4 bytes per texel, rows tightly packed
	//   - error: error if the file cannot be read or decoded
	Decode(path string) (common.TextureStagingData, error)
}

// DecoderFunc adapts a plain function to the Decoder interface.
type DecoderFunc func(path string) (common.TextureStagingData, error)

func (f DecoderFunc) Decode(path string) (common.TextureStagingData, error) {
	return f(path)
}

// FileDecoder returns the default Decoder, which reads the file from disk and decodes any format
// registered with the image package (PNG, JPEG, BMP, TIFF and WebP).
func FileDecoder() Decoder {
	return DecoderFunc(decodeFile)
}

func decodeFile(path string) (common.TextureStagingData, error) {
	file, err := os.Open(path)
	if err != nil {
		return common.TextureStagingData{}, err
	}
	defer file.Close()

	return common.DecodeImage(file)
}

var (
	decodePoolOnce sync.Once
	decodePool     worker.DynamicWorkerPool
)

// sharedDecodePool returns the process-wide pool used for image decoding. Workers persist for the
// life of the process so repeated cubemap loads do not spawn new goroutines.
func sharedDecodePool() worker.DynamicWorkerPool {
	decodePoolOnce.Do(func() {
		decodePool = worker.NewDynamicWorkerPool(min(runtime.NumCPU(), FacesPerCube), 64, 1*time.Second)
	})
	return decodePool
}

// decodeFaces decodes the six face images concurrently and returns them in input order.
// When several decodes fail, the error for the lowest index is returned.
func decodeFaces(paths []string, decoder Decoder) ([FacesPerCube]common.TextureStagingData, error) {
	var (
		faces [FacesPerCube]common.TextureStagingData
		errs  [FacesPerCube]error
		wg    sync.WaitGroup
	)

	pool := sharedDecodePool()
	for i, path := range paths {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: path,
			Do: func() (any, error) {
				defer wg.Done()

				face, err := decoder.Decode(path)
				if err != nil {
					errs[i] = fmt.Errorf("failed to decode cubemap face %d (%s): %w", i, path, err)
					return nil, errs[i]
				}
				faces[i] = face
				return nil, nil
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return faces, err
		}
	}
	return faces, nil
}
