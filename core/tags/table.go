package tags

func def(id uint16, name string, count uint32, types ...Type) Definition {
	return Definition{ID: id, Name: name, Count: count, Types: types}
}

// IFD0/IFD1 tags (TIFF 6.0 baseline plus the Exif 2.3 additions to IFD0).
var imageTags = []Definition{
	def(0x00FE, "NewSubfileType", 1, Long),
	def(0x0100, "ImageWidth", 1, Long, Short),
	def(0x0101, "ImageLength", 1, Long, Short),
	def(0x0102, "BitsPerSample", 0, Short),
	def(0x0103, "Compression", 1, Short),
	def(0x0106, "PhotometricInterpretation", 1, Short),
	def(0x010E, "ImageDescription", 0, ASCII),
	def(0x010F, "Make", 0, ASCII),
	def(0x0110, "Model", 0, ASCII),
	def(0x0111, "StripOffsets", 0, Long, Short),
	def(0x0112, "Orientation", 1, Short),
	def(0x0115, "SamplesPerPixel", 1, Short),
	def(0x0116, "RowsPerStrip", 1, Long, Short),
	def(0x0117, "StripByteCounts", 0, Long, Short),
	def(0x011A, "XResolution", 1, Rational),
	def(0x011B, "YResolution", 1, Rational),
	def(0x011C, "PlanarConfiguration", 1, Short),
	def(0x0128, "ResolutionUnit", 1, Short),
	def(0x012D, "TransferFunction", 768, Short),
	def(0x0131, "Software", 0, ASCII),
	def(0x0132, "DateTime", 20, ASCII),
	def(0x013B, "Artist", 0, ASCII),
	def(0x013E, "WhitePoint", 2, Rational),
	def(0x013F, "PrimaryChromaticities", 6, Rational),
	def(0x0142, "TileWidth", 1, Long, Short),
	def(0x0143, "TileLength", 1, Long, Short),
	def(0x0144, "TileOffsets", 0, Long),
	def(0x0145, "TileByteCounts", 0, Long, Short),
	def(0x0201, "JPEGInterchangeFormat", 1, Long),
	def(0x0202, "JPEGInterchangeFormatLength", 1, Long),
	def(0x0211, "YCbCrCoefficients", 3, Rational),
	def(0x0212, "YCbCrSubSampling", 2, Short),
	def(0x0213, "YCbCrPositioning", 1, Short),
	def(0x0214, "ReferenceBlackWhite", 6, Rational),
	def(0x02BC, "XMLPacket", 0, Byte, Undefined),
	def(0x4746, "Rating", 1, Short),
	def(0x8298, "Copyright", 0, ASCII),
	def(0x83BB, "IPTCNAA", 0, Long, Undefined),
	def(0x8769, "ExifIFDPointer", 1, Long),
	def(0x8825, "GPSInfoIFDPointer", 1, Long),
	def(0x9C9B, "XPTitle", 0, Byte),
	def(0x9C9C, "XPComment", 0, Byte),
	def(0x9C9D, "XPAuthor", 0, Byte),
	def(0x9C9E, "XPKeywords", 0, Byte),
	def(0x9C9F, "XPSubject", 0, Byte),
}

var exifTags = []Definition{
	def(0x829A, "ExposureTime", 1, Rational),
	def(0x829D, "FNumber", 1, Rational),
	def(0x8822, "ExposureProgram", 1, Short),
	def(0x8824, "SpectralSensitivity", 0, ASCII),
	def(0x8827, "ISOSpeedRatings", 0, Short),
	def(0x8828, "OECF", 0, Undefined),
	def(0x8830, "SensitivityType", 1, Short),
	def(0x8832, "RecommendedExposureIndex", 1, Long),
	def(0x9000, "ExifVersion", 4, Undefined),
	def(0x9003, "DateTimeOriginal", 20, ASCII),
	def(0x9004, "DateTimeDigitized", 20, ASCII),
	def(0x9010, "OffsetTime", 7, ASCII),
	def(0x9011, "OffsetTimeOriginal", 7, ASCII),
	def(0x9012, "OffsetTimeDigitized", 7, ASCII),
	def(0x9101, "ComponentsConfiguration", 4, Undefined),
	def(0x9102, "CompressedBitsPerPixel", 1, Rational),
	def(0x9201, "ShutterSpeedValue", 1, SRational),
	def(0x9202, "ApertureValue", 1, Rational),
	def(0x9203, "BrightnessValue", 1, SRational),
	def(0x9204, "ExposureBiasValue", 1, SRational),
	def(0x9205, "MaxApertureValue", 1, Rational),
	def(0x9206, "SubjectDistance", 1, Rational),
	def(0x9207, "MeteringMode", 1, Short),
	def(0x9208, "LightSource", 1, Short),
	def(0x9209, "Flash", 1, Short),
	def(0x920A, "FocalLength", 1, Rational),
	def(0x9214, "SubjectArea", 0, Short),
	def(0x927C, "MakerNote", 0, Undefined),
	def(0x9286, "UserComment", 0, Undefined),
	def(0x9290, "SubSecTime", 0, ASCII),
	def(0x9291, "SubSecTimeOriginal", 0, ASCII),
	def(0x9292, "SubSecTimeDigitized", 0, ASCII),
	def(0xA000, "FlashpixVersion", 4, Undefined),
	def(0xA001, "ColorSpace", 1, Short),
	def(0xA002, "PixelXDimension", 1, Long, Short),
	def(0xA003, "PixelYDimension", 1, Long, Short),
	def(0xA004, "RelatedSoundFile", 13, ASCII),
	def(0xA005, "InteroperabilityIFDPointer", 1, Long),
	def(0xA20B, "FlashEnergy", 1, Rational),
	def(0xA20E, "FocalPlaneXResolution", 1, Rational),
	def(0xA20F, "FocalPlaneYResolution", 1, Rational),
	def(0xA210, "FocalPlaneResolutionUnit", 1, Short),
	def(0xA214, "SubjectLocation", 2, Short),
	def(0xA215, "ExposureIndex", 1, Rational),
	def(0xA217, "SensingMethod", 1, Short),
	def(0xA300, "FileSource", 1, Undefined),
	def(0xA301, "SceneType", 1, Undefined),
	def(0xA302, "CFAPattern", 0, Undefined),
	def(0xA401, "CustomRendered", 1, Short),
	def(0xA402, "ExposureMode", 1, Short),
	def(0xA403, "WhiteBalance", 1, Short),
	def(0xA404, "DigitalZoomRatio", 1, Rational),
	def(0xA405, "FocalLengthIn35mmFilm", 1, Short),
	def(0xA406, "SceneCaptureType", 1, Short),
	def(0xA407, "GainControl", 1, Short),
	def(0xA408, "Contrast", 1, Short),
	def(0xA409, "Saturation", 1, Short),
	def(0xA40A, "Sharpness", 1, Short),
	def(0xA40B, "DeviceSettingDescription", 0, Undefined),
	def(0xA40C, "SubjectDistanceRange", 1, Short),
	def(0xA420, "ImageUniqueID", 33, ASCII),
	def(0xA430, "CameraOwnerName", 0, ASCII),
	def(0xA431, "BodySerialNumber", 0, ASCII),
	def(0xA432, "LensSpecification", 4, Rational),
	def(0xA433, "LensMake", 0, ASCII),
	def(0xA434, "LensModel", 0, ASCII),
	def(0xA435, "LensSerialNumber", 0, ASCII),
	def(0xA500, "Gamma", 1, Rational),
}

var gpsTags = []Definition{
	def(0x0000, "GPSVersionID", 4, Byte),
	def(0x0001, "GPSLatitudeRef", 2, ASCII),
	def(0x0002, "GPSLatitude", 3, Rational),
	def(0x0003, "GPSLongitudeRef", 2, ASCII),
	def(0x0004, "GPSLongitude", 3, Rational),
	def(0x0005, "GPSAltitudeRef", 1, Byte),
	def(0x0006, "GPSAltitude", 1, Rational),
	def(0x0007, "GPSTimeStamp", 3, Rational),
	def(0x0008, "GPSSatellites", 0, ASCII),
	def(0x0009, "GPSStatus", 2, ASCII),
	def(0x000A, "GPSMeasureMode", 2, ASCII),
	def(0x000B, "GPSDOP", 1, Rational),
	def(0x000C, "GPSSpeedRef", 2, ASCII),
	def(0x000D, "GPSSpeed", 1, Rational),
	def(0x000E, "GPSTrackRef", 2, ASCII),
	def(0x000F, "GPSTrack", 1, Rational),
	def(0x0010, "GPSImgDirectionRef", 2, ASCII),
	def(0x0011, "GPSImgDirection", 1, Rational),
	def(0x0012, "GPSMapDatum", 0, ASCII),
	def(0x0013, "GPSDestLatitudeRef", 2, ASCII),
	def(0x0014, "GPSDestLatitude", 3, Rational),
	def(0x0015, "GPSDestLongitudeRef", 2, ASCII),
	def(0x0016, "GPSDestLongitude", 3, Rational),
	def(0x0017, "GPSDestBearingRef", 2, ASCII),
	def(0x0018, "GPSDestBearing", 1, Rational),
	def(0x0019, "GPSDestDistanceRef", 2, ASCII),
	def(0x001A, "GPSDestDistance", 1, Rational),
	def(0x001B, "GPSProcessingMethod", 0, Undefined),
	def(0x001C, "GPSAreaInformation", 0, Undefined),
	def(0x001D, "GPSDateStamp", 11, ASCII),
	def(0x001E, "GPSDifferential", 1, Short),
	def(0x001F, "GPSHPositioningError", 1, Rational),
}

var interopTags = []Definition{
	def(0x0001, "InteroperabilityIndex", 0, ASCII),
	def(0x0002, "InteroperabilityVersion", 4, Undefined),
	def(0x1000, "RelatedImageFileFormat", 0, ASCII),
	def(0x1001, "RelatedImageWidth", 1, Long, Short),
	def(0x1002, "RelatedImageLength", 1, Long, Short),
}
