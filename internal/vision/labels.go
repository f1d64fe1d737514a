package vision

import "image/color"

// Class indices produced by the segmentation backend. The table comes
// from the ATR dataset the clothing model was fine-tuned on.
const (
	ClassBackground uint8 = 0
	ClassHat        uint8 = 1
	ClassHair       uint8 = 2
	ClassSunglasses uint8 = 3
	ClassUpper      uint8 = 4
	ClassSkirt      uint8 = 5
	ClassPants      uint8 = 6
	ClassDress      uint8 = 7
	ClassBelt       uint8 = 8
	ClassLeftShoe   uint8 = 9
	ClassRightShoe  uint8 = 10
	ClassFace       uint8 = 11
	ClassLeftLeg    uint8 = 12
	ClassRightLeg   uint8 = 13
	ClassLeftArm    uint8 = 14
	ClassRightArm   uint8 = 15
	ClassBag        uint8 = 16
	ClassScarf      uint8 = 17
)

// NumClasses is the size of the segmentation label table.
const NumClasses = 18

// ClassLabels maps class indices to human readable names.
var ClassLabels = [NumClasses]string{
	"Background",
	"Hat",
	"Hair",
	"Sunglasses",
	"Upper-clothes",
	"Skirt",
	"Pants",
	"Dress",
	"Belt",
	"Left-shoe",
	"Right-shoe",
	"Face",
	"Left-leg",
	"Right-leg",
	"Left-arm",
	"Right-arm",
	"Bag",
	"Scarf",
}

// Palette assigns each class a distinct color for overlay rendering.
var Palette = [NumClasses]color.RGBA{
	{0, 0, 0, 255},       // Background
	{128, 0, 0, 255},     // Hat
	{255, 0, 0, 255},     // Hair
	{255, 165, 0, 255},   // Sunglasses
	{255, 192, 203, 255}, // Upper-clothes
	{255, 105, 180, 255}, // Skirt
	{255, 0, 255, 255},   // Pants
	{219, 112, 147, 255}, // Dress
	{255, 255, 0, 255},   // Belt
	{0, 128, 0, 255},     // Left-shoe
	{34, 139, 34, 255},   // Right-shoe
	{255, 228, 196, 255}, // Face
	{75, 0, 130, 255},    // Left-leg
	{138, 43, 226, 255},  // Right-leg
	{0, 191, 255, 255},   // Left-arm
	{135, 206, 235, 255}, // Right-arm
	{0, 255, 255, 255},   // Bag
	{255, 20, 147, 255},  // Scarf
}

var clothingClasses = map[uint8]bool{
	ClassUpper: true,
	ClassSkirt: true,
	ClassPants: true,
	ClassDress: true,
	ClassBelt:  true,
	ClassBag:   true,
	ClassScarf: true,
}

// IsClothing reports whether the class index is a garment class.
func IsClothing(class uint8) bool {
	return clothingClasses[class]
}

// KeepVisible reports whether a pixel of this class may retain its
// original color in a persisted rendering. Clothing and hair stay
// visible, everything else is anonymized.
func KeepVisible(class uint8) bool {
	return class == ClassHair || clothingClasses[class]
}
