package soft

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
)

// Soft textures store every texel in four bytes, whatever the format. Subresources are packed back
// to back in subresource order and their rows carry no padding.
const texelSize = 4

type subresourceLayout struct {
	offset int
	width  int
	height int
	depth  int
}

func (l subresourceLayout) rowSize() int  { return l.width * texelSize }
func (l subresourceLayout) rows() int     { return l.height * l.depth }
func (l subresourceLayout) byteSize() int { return l.rowSize() * l.rows() }

func textureLayouts(desc driver.ResourceDesc) []subresourceLayout {
	mipLevels := max(desc.MipLevelCount, 1)
	layouts := make([]subresourceLayout, desc.SubresourceCount())

	offset := 0
	for i := range layouts {
		size := desc.MipSize(uint32(i) % mipLevels)
		layouts[i] = subresourceLayout{
			offset: offset,
			width:  int(size.Width),
			height: int(size.Height),
			depth:  int(size.DepthOrArrayLayers),
		}
		offset += layouts[i].byteSize()
	}

	return layouts
}

// TextureLayout returns the offset and size of a subresource in the bytes returned by Contents
func TextureLayout(desc driver.ResourceDesc, subresource uint32) (offset int, size int) {
	layout := textureLayouts(desc)[subresource]
	return layout.offset, layout.byteSize()
}

// copyRegion is one side of a texture copy, resolved to rows of bytes
type copyRegion struct {
	bytes    []byte
	offset   int
	rowPitch int
	rowSize  int
	width    int
	height   int
	depth    int
}

func (r copyRegion) sameShape(other copyRegion) bool {
	return r.width == other.width && r.height == other.height && r.depth == other.depth && r.rowSize == other.rowSize
}

func (r copyRegion) copyFrom(src copyRegion) {
	for row := range r.height * r.depth {
		destStart := r.offset + row*r.rowPitch
		srcStart := src.offset + row*src.rowPitch
		copy(r.bytes[destStart:destStart+r.rowSize], src.bytes[srcStart:srcStart+src.rowSize])
	}
}

func locateCopy(location driver.TextureCopyLocation) (copyRegion, error) {
	resource, ok := location.Resource.(*Resource)
	if !ok {
		return copyRegion{}, errors.Newf("texture copy location of type %T", location.Resource)
	}

	if location.Footprint != nil {
		if !resource.desc.IsBuffer() {
			return copyRegion{}, errors.Newf("footprint copy location in texture %q", resource.name)
		}

		footprint := location.Footprint
		region := copyRegion{
			bytes:    resource.bytes,
			offset:   footprint.Offset,
			rowPitch: footprint.RowPitch,
			rowSize:  footprint.RowSize,
			width:    int(footprint.Width),
			height:   int(footprint.Height),
			depth:    int(footprint.Depth),
		}

		end := region.offset + region.rowPitch*(region.height*region.depth-1) + region.rowSize
		if region.offset < 0 || end > len(resource.bytes) {
			return copyRegion{}, errors.Newf("footprint ending at %d overruns buffer %q of %d bytes", end, resource.name, len(resource.bytes))
		}

		return region, nil
	}

	if resource.desc.IsBuffer() {
		return copyRegion{}, errors.Newf("buffer %q used as a texture copy location without a footprint", resource.name)
	}

	if location.Subresource >= resource.desc.SubresourceCount() {
		return copyRegion{}, errors.Newf("subresource %d is out of range for texture %q with %d subresources", location.Subresource, resource.name, resource.desc.SubresourceCount())
	}

	layout := textureLayouts(resource.desc)[location.Subresource]
	return copyRegion{
		bytes:    resource.bytes,
		offset:   layout.offset,
		rowPitch: layout.rowSize(),
		rowSize:  layout.rowSize(),
		width:    layout.width,
		height:   layout.height,
		depth:    layout.depth,
	}, nil
}

func describeLocation(location driver.TextureCopyLocation) string {
	if location.Footprint != nil {
		return fmt.Sprintf("footprint %d", location.Footprint.Offset)
	}

	return fmt.Sprintf("subresource %d", location.Subresource)
}
