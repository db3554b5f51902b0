package imgx

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// ErrEmpty 表示输入为空（零字节文件），属于解码失败。
var ErrEmpty = errors.New("图片数据为空")

// DecodeError 与 EncodeError 区分失败发生在哪一步；两者都属于图片错误。
type DecodeError struct{ Err error }

func (e *DecodeError) Error() string { return "解码 WebP 失败：" + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

type EncodeError struct{ Err error }

func (e *EncodeError) Error() string { return "编码 PNG 失败：" + e.Err.Error() }
func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeWebP 把 WebP 字节解码为内存图像（支持有损、无损与带 alpha 的扩展格式）。
func DecodeWebP(src []byte) (image.Image, error) {
	if len(src) == 0 {
		return nil, &DecodeError{Err: ErrEmpty}
	}
	img, err := webp.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &DecodeError{Err: errors.New("图片尺寸无效")}
	}
	return img, nil
}

// WebPToPNG 把 WebP 重新编码为 PNG。
//
// 约束：
// - 输入必须是 WebP；其他格式一律解码失败
// - 输出固定为 PNG（无损），像素为解码结果按 YCbCr -> RGB 换算后的非预乘 NRGBA
func WebPToPNG(src []byte) ([]byte, error) {
	img, err := DecodeWebP(src)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	// 默认压缩级别：体积与速度之间比较均衡。
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&out, toNRGBA(img)); err != nil {
		return nil, &EncodeError{Err: err}
	}
	return out.Bytes(), nil
}

// toNRGBA 把解码结果逐像素换算成 *image.NRGBA。
//
// 有损 WebP 解出的是 YCbCr（带 alpha 时为 NYCbCrA）。直接交给 png.Encoder 会先经过
// 预乘 alpha 再还原，低 alpha 像素会丢精度；这里按非预乘方式直接换算。
func toNRGBA(img image.Image) *image.NRGBA {
	switch m := img.(type) {
	case *image.NRGBA:
		return m
	case *image.NYCbCrA:
		out := image.NewNRGBA(m.Rect)
		for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
			for x := m.Rect.Min.X; x < m.Rect.Max.X; x++ {
				c := m.NYCbCrAAt(x, y)
				r, g, b := color.YCbCrToRGB(c.Y, c.Cb, c.Cr)
				out.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: c.A})
			}
		}
		return out
	case *image.YCbCr:
		out := image.NewNRGBA(m.Rect)
		for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
			for x := m.Rect.Min.X; x < m.Rect.Max.X; x++ {
				c := m.YCbCrAt(x, y)
				r, g, b := color.YCbCrToRGB(c.Y, c.Cb, c.Cr)
				out.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 0xff})
			}
		}
		return out
	default:
		b := img.Bounds()
		out := image.NewNRGBA(b)
		draw.Draw(out, b, img, b.Min, draw.Src)
		return out
	}
}
