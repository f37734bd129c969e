package pathinfo

// SupportsLchown reports whether the platform can change the owner of a
// symlink itself. Every POSIX target overlink builds on ships lchown, so
// this is a constant; it exists to keep the capability checks around
// symlink stat sync symmetric with SupportsLchmod.
const SupportsLchown = true
